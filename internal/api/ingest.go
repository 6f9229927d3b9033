package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/atlasdesk/atlasdesk/internal/ingest"
)

// jobRunner is what both maintenance jobs look like from the handler side.
type jobRunner interface {
	Run(ctx context.Context) (int, error)
}

// ingestHandler exposes the maintenance jobs over HTTP so operators can
// trigger them without shell access. The same jobs are reachable as CLI
// subcommands.
type ingestHandler struct {
	backfiller jobRunner
	importer   jobRunner
	logger     *slog.Logger
}

// backfillResponse is the JSON payload of a completed backfill run.
type backfillResponse struct {
	Message string `json:"message"`
	Updated int    `json:"updated"`
}

// importResponse is the JSON payload of a completed import run.
type importResponse struct {
	Message  string `json:"message"`
	Inserted int    `json:"inserted"`
}

// backfill handles POST /api/v1/admin/backfill.
func (h *ingestHandler) backfill(w http.ResponseWriter, r *http.Request) {
	updated, err := h.backfiller.Run(r.Context())
	if err != nil {
		h.logger.Error("running backfill", "error", err)
		writeError(w, http.StatusInternalServerError, "backfill_failed", "failed to backfill embeddings", h.logger)
		return
	}

	msg := "Embeddings updated."
	if updated == 0 {
		msg = "No rows needed embedding."
	}
	writeJSON(w, http.StatusOK, backfillResponse{Message: msg, Updated: updated}, h.logger)
}

// importReplies handles POST /api/v1/admin/import.
func (h *ingestHandler) importReplies(w http.ResponseWriter, r *http.Request) {
	inserted, err := h.importer.Run(r.Context())
	if err != nil {
		if errors.Is(err, ingest.ErrDataFileMissing) {
			writeError(w, http.StatusBadRequest, "data_file_missing", "import data file not found", h.logger)
			return
		}
		h.logger.Error("running import", "error", err)
		writeError(w, http.StatusInternalServerError, "import_failed", "failed to import replies", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, importResponse{Message: "Replies imported.", Inserted: inserted}, h.logger)
}
