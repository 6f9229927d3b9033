// Package ingest holds the maintenance jobs that populate the knowledge
// base: embedding backfill for rows missing vectors and bulk import of
// community replies. Both jobs run to completion and exit; neither is part
// of the query path.
package ingest

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/atlasdesk/atlasdesk/internal/knowledge"
)

// defaultBatchLimit bounds how many pending rows are listed and embedded at
// a time. A run keeps fetching batches until the backlog is drained.
const defaultBatchLimit int32 = 500

// Embedder turns text into an embedding vector.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// PendingStore is the slice of the knowledge store the backfill job needs.
type PendingStore interface {
	ListPending(ctx context.Context, limit int32) ([]knowledge.Document, error)
	SetEmbedding(ctx context.Context, source string, id int64, vec []float32) error
}

// Backfiller embeds knowledge rows whose embedding column is still NULL.
type Backfiller struct {
	store    PendingStore
	embedder Embedder
	logger   *slog.Logger
	limit    int32
}

// NewBackfiller wires a backfill job over the given store and embedder.
func NewBackfiller(store PendingStore, embedder Embedder, logger *slog.Logger) (*Backfiller, error) {
	if store == nil {
		return nil, fmt.Errorf("store is required")
	}
	if embedder == nil {
		return nil, fmt.Errorf("embedder is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return &Backfiller{
		store:    store,
		embedder: embedder,
		logger:   logger,
		limit:    defaultBatchLimit,
	}, nil
}

// Run embeds every pending row across the whole backlog, batch by batch,
// and reports how many were updated.
//
// Per-row failures are logged and skipped so one bad row never blocks the
// rest; only a failure to list pending rows aborts the run. Skipped rows
// stay pending, so the loop stops once a full batch makes no progress
// rather than refetching the same failing rows forever. A zero count with
// a nil error means the backlog is already drained.
func (b *Backfiller) Run(ctx context.Context) (int, error) {
	updated := 0
	for {
		docs, err := b.store.ListPending(ctx, b.limit)
		if err != nil {
			return updated, fmt.Errorf("listing pending rows: %w", err)
		}
		if len(docs) == 0 {
			break
		}

		batchUpdated := 0
		for _, doc := range docs {
			vec, err := b.embedder.Embed(ctx, embeddingText(doc))
			if err != nil {
				b.logger.Warn("skipping row, embedding failed",
					"source", doc.Source, "id", doc.ID, "error", err)
				continue
			}

			if err := b.store.SetEmbedding(ctx, doc.Source, doc.ID, vec); err != nil {
				b.logger.Warn("skipping row, update failed",
					"source", doc.Source, "id", doc.ID, "error", err)
				continue
			}

			batchUpdated++
		}

		updated += batchUpdated
		b.logger.Info("backfill batch finished",
			"pending", len(docs), "updated", batchUpdated)

		if batchUpdated == 0 {
			break
		}
	}

	b.logger.Info("backfill finished", "updated", updated)
	return updated, nil
}

// embeddingText joins title and content so both contribute to the vector.
// Untitled rows embed content alone, without a leading newline.
func embeddingText(doc knowledge.Document) string {
	if doc.Title != nil && *doc.Title != "" {
		return *doc.Title + "\n" + doc.Content
	}
	return doc.Content
}
