package llm

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Observer receives one observation per provider call.
type Observer interface {
	ObserveLLM(provider string, d time.Duration, err error)
}

// Observed bounds every call with a timeout and reports its latency.
type Observed struct {
	next     Provider
	name     string
	timeout  time.Duration
	observer Observer
	logger   *zap.Logger
}

func NewObserved(next Provider, name string, timeout time.Duration, observer Observer, logger *zap.Logger) *Observed {
	return &Observed{next: next, name: name, timeout: timeout, observer: observer, logger: logger}
}

func (o *Observed) Generate(ctx context.Context, prompt string) (string, error) {
	if o.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.timeout)
		defer cancel()
	}

	start := time.Now()
	out, err := o.next.Generate(ctx, prompt)
	elapsed := time.Since(start)

	if o.observer != nil {
		o.observer.ObserveLLM(o.name, elapsed, err)
	}
	if err != nil {
		o.logger.Warn("provider call failed",
			zap.String("provider", o.name),
			zap.Int("prompt_len", len(prompt)),
			zap.Duration("elapsed", elapsed),
			zap.Error(err))
		return "", err
	}
	o.logger.Debug("provider call", zap.String("provider", o.name), zap.Duration("elapsed", elapsed))
	return out, nil
}
