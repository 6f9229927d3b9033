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

// runImport bulk-imports community replies from the configured JSON file.
// Imported rows start without embeddings; run backfill afterwards.
func runImport() error {
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

	inserted, err := a.Importer.Run(ctx)
	if err != nil {
		return fmt.Errorf("running import: %w", err)
	}

	fmt.Printf("Imported %d replies from %s.\n", inserted, cfg.Import.DataFile)
	fmt.Println("Run 'atlasdesk backfill' to embed them.")
	return nil
}
