package main

import (
	"context"
	"errors"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/davidbz/lodestar/internal/config"
	"github.com/davidbz/lodestar/internal/http"
	"github.com/davidbz/lodestar/internal/knowledge"
	"github.com/davidbz/lodestar/internal/observability"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	container := buildContainer(ctx, cfg)

	err := container.Invoke(func(server *http.Server, seeder *knowledge.Seeder, res *resources) error {
		defer res.Close()

		if _, seedErr := seeder.Seed(ctx); seedErr != nil {
			observability.FromContext(ctx).Warn("knowledge seeding incomplete", observability.Error(seedErr))
		}

		errCh := make(chan error, 1)
		go func() {
			errCh <- server.Start(ctx)
		}()

		select {
		case err := <-errCh:
			return err
		case <-ctx.Done():
		}

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx),
			time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
		defer cancel()

		return errors.Join(server.Shutdown(shutdownCtx), <-errCh)
	})
	if err != nil {
		log.Fatalf("Application failed: %v", err)
	}
}
