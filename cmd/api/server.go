package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/abhishek622/intellihire/internal/interview"
	"go.uber.org/zap"
)

func (a *app) serve() error {
	handler, err := a.routes()
	if err != nil {
		return err
	}
	llm := a.Config.LLM
	server := &http.Server{
		Addr:         a.Config.GetServerAddr(),
		Handler:      handler,
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: interview.ConcludeBudget(llm.Timeout, llm.ChunkConcurrency, llm.MaxTranscriptPairs) + 30*time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.Logger.Info("starting server", zap.String("addr", server.Addr), zap.String("env", a.Config.Env))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		a.Logger.Info("shutting down", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(ctx)
}
