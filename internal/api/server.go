// Package api provides the JSON HTTP server for AtlasDesk.
//
// Routing uses Go 1.22+ method patterns behind a layered middleware stack:
//
//	Recovery → RequestID → Logging → CORS → RateLimit → Routes
//
// Health probes (/health, /ready) bypass the middleware stack via a
// top-level mux so they stay fast and unauthenticated.
//
// Endpoints:
//   - POST /api/v1/search         — answer a question with sources
//   - POST /api/v1/admin/backfill — embed rows missing vectors
//   - POST /api/v1/admin/import   — bulk-import community replies
//   - GET  /health                — liveness probe
//   - GET  /ready                 — readiness probe (database ping)
//   - GET  /                      — embedded browser UI (when configured)
package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ServerConfig contains configuration for creating the API server.
type ServerConfig struct {
	Logger      *slog.Logger
	Search      answerer      // Required
	Backfiller  jobRunner     // Optional: nil disables the backfill endpoint
	Importer    jobRunner     // Optional: nil disables the import endpoint
	Pool        *pgxpool.Pool // Optional: nil disables pool stats in /ready
	Static      http.Handler  // Optional: nil disables the browser UI
	CORSOrigins []string      // Allowed origins for CORS
	IsDev       bool          // Disables HSTS (plain HTTP during development)
	TrustProxy  bool          // Trust X-Real-IP/X-Forwarded-For headers
	RateBurst   int           // Rate limiter burst size per IP (0 = default 60)
}

// Server is the JSON API HTTP server.
type Server struct {
	mux *http.ServeMux
}

// NewServer creates a new API server with all routes configured.
func NewServer(cfg ServerConfig) (*Server, error) {
	if cfg.Search == nil {
		return nil, errors.New("search service is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	mux := http.NewServeMux()

	sh := &searchHandler{svc: cfg.Search, logger: logger}
	mux.HandleFunc("POST /api/v1/search", sh.answer)

	if cfg.Backfiller != nil || cfg.Importer != nil {
		ih := &ingestHandler{backfiller: cfg.Backfiller, importer: cfg.Importer, logger: logger}
		if cfg.Backfiller != nil {
			mux.HandleFunc("POST /api/v1/admin/backfill", ih.backfill)
		}
		if cfg.Importer != nil {
			mux.HandleFunc("POST /api/v1/admin/import", ih.importReplies)
		}
	}

	if cfg.Static != nil {
		mux.Handle("GET /", cfg.Static)
	}

	burst := cfg.RateBurst
	if burst <= 0 {
		burst = 60
	}
	rl := newRateLimiter(1.0, burst)

	// Build middleware stack (outermost first). RequestID must be before
	// Logging so request_id is available in log attributes. CORS must be
	// before RateLimit so preflight OPTIONS gets proper CORS headers.
	var handler http.Handler = mux
	handler = rateLimitMiddleware(rl, cfg.TrustProxy, logger)(handler)
	handler = corsMiddleware(cfg.CORSOrigins)(handler)
	handler = loggingMiddleware(logger)(handler)
	handler = requestIDMiddleware()(handler)
	handler = recoveryMiddleware(logger)(handler)

	isDev := cfg.IsDev
	final := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		setSecurityHeaders(w, isDev)
		handler.ServeHTTP(w, r)
	})

	// Top-level mux separates health probes from the middleware stack.
	topMux := http.NewServeMux()
	topMux.HandleFunc("GET /health", health(logger))
	topMux.Handle("GET /ready", readiness(cfg.Pool, logger))
	topMux.Handle("/", final)

	return &Server{mux: topMux}, nil
}

// Handler returns the server as an http.Handler.
func (s *Server) Handler() http.Handler {
	return s.mux
}
