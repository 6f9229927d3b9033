package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/atlasdesk/atlasdesk/internal/search"
)

// maxSearchBodyBytes bounds the request body size for the search endpoint.
const maxSearchBodyBytes = 1 << 20 // 1 MiB

// answerer is the slice of the search service this handler needs.
type answerer interface {
	Answer(ctx context.Context, query string) (*search.Response, error)
}

// searchHandler holds dependencies for the question answering endpoint.
type searchHandler struct {
	svc    answerer
	logger *slog.Logger
}

// searchRequest is the JSON body of POST /api/v1/search.
type searchRequest struct {
	Query string `json:"query"`
}

// answer handles POST /api/v1/search.
//
// An empty or missing query is a client error; any pipeline failure is
// reported as a 500 with a generic message and never as a degraded answer.
func (h *searchHandler) answer(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxSearchBodyBytes)

	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeError(w, http.StatusRequestEntityTooLarge, "body_too_large", "request body too large", h.logger)
			return
		}
		writeError(w, http.StatusBadRequest, "invalid_body", "request body must be JSON with a query field", h.logger)
		return
	}

	resp, err := h.svc.Answer(r.Context(), req.Query)
	if err != nil {
		if errors.Is(err, search.ErrEmptyQuery) {
			writeError(w, http.StatusBadRequest, "missing_query", "query is required", h.logger)
			return
		}
		h.logger.Error("answering question", "error", err, "query_len", len(req.Query))
		writeError(w, http.StatusInternalServerError, "search_failed", "failed to answer the question", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, resp, h.logger)
}
