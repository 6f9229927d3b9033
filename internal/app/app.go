// Package app provides application initialization and dependency wiring.
//
// App is the container that holds every long-lived component: the Genkit
// runtime, the database pool, the knowledge store, the search service, and
// the maintenance jobs. Setup builds the whole graph; Close releases it in
// reverse order.
package app

import (
	"log/slog"

	"github.com/firebase/genkit/go/genkit"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/atlasdesk/atlasdesk/internal/config"
	"github.com/atlasdesk/atlasdesk/internal/gemini"
	"github.com/atlasdesk/atlasdesk/internal/ingest"
	"github.com/atlasdesk/atlasdesk/internal/knowledge"
	"github.com/atlasdesk/atlasdesk/internal/search"
)

// App is the core application container.
type App struct {
	Config *config.Config
	Logger *slog.Logger

	Genkit    *genkit.Genkit
	DBPool    *pgxpool.Pool
	Knowledge *knowledge.Store
	Embedder  *gemini.Embedder
	Generator *gemini.Generator

	Search     *search.Service
	Backfiller *ingest.Backfiller
	Importer   *ingest.Importer

	otelCleanup func()
	dbCleanup   func()
}

// Close gracefully shuts down all resources in reverse setup order.
func (a *App) Close() error {
	if a.Logger != nil {
		a.Logger.Info("shutting down application")
	}

	if a.dbCleanup != nil {
		a.dbCleanup()
	}
	if a.otelCleanup != nil {
		a.otelCleanup()
	}

	return nil
}
