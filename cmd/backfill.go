package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/atlasdesk/atlasdesk/internal/app"
	"github.com/atlasdesk/atlasdesk/internal/config"
)

// runBackfill embeds every knowledge row still missing a vector and exits.
func runBackfill() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if err = cfg.Validate(); err != nil {
		return fmt.Errorf("validating config: %w", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	logger := slog.Default()

	a, err := app.Setup(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("initializing application: %w", err)
	}
	defer func() {
		if closeErr := a.Close(); closeErr != nil {
			logger.Warn("shutdown error", "error", closeErr)
		}
	}()

	updated, err := a.Backfiller.Run(ctx)
	if err != nil {
		return fmt.Errorf("running backfill: %w", err)
	}

	if updated == 0 {
		fmt.Println("No rows needed embedding.")
	} else {
		fmt.Printf("Updated embeddings for %d rows.\n", updated)
	}
	return nil
}
