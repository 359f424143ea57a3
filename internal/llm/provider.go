// Package llm isolates the generative text provider behind a single
// prompt-in, text-out capability so callers never depend on a vendor SDK.
package llm

import (
	"context"
	"errors"
)

// Provider turns one prompt into one completion.
type Provider interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

var ErrEmptyCompletion = errors.New("provider returned no completion")

// ProviderFunc adapts a plain function to Provider.
type ProviderFunc func(ctx context.Context, prompt string) (string, error)

func (f ProviderFunc) Generate(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}
