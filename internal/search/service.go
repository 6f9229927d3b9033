// Package search implements the retrieval-augmented query pipeline:
// embed the question, retrieve similar documents from the knowledge store,
// compose a two-turn prompt, and generate a short answer citing the
// retrieved sources.
package search

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/atlasdesk/atlasdesk/internal/knowledge"
)

// Embedder maps text to a fixed-length vector.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Retriever returns stored documents similar to a query vector, ordered by
// descending similarity. An empty result is a success with zero elements.
type Retriever interface {
	Search(ctx context.Context, vec []float32, threshold float64, limit int) ([]knowledge.Match, error)
}

// Generator produces text from a two-turn prompt. Empty output is not an
// error; the pipeline degrades it to a fallback answer.
type Generator interface {
	Generate(ctx context.Context, system, user string) (string, error)
}

// ErrEmptyQuery indicates the caller provided an empty or whitespace-only
// query. No collaborator is called in this case.
var ErrEmptyQuery = errors.New("query must not be empty")

// FallbackAnswer is substituted when generation succeeds but returns no
// usable text.
const FallbackAnswer = "I couldn't find a strong answer for this question in the existing data."

// Per-call timeouts. Outbound calls are bounded so a stuck collaborator
// surfaces as an error instead of hanging the request.
const (
	embedTimeout    = 15 * time.Second
	searchTimeout   = 10 * time.Second
	generateTimeout = 60 * time.Second
)

// Options holds retrieval tuning for the pipeline. Threshold, limit and
// excerpt budget are fixed per service instance, never derived per request.
type Options struct {
	SimilarityThreshold float64
	MatchLimit          int
	ExcerptChars        int
}

// Source is one supporting document in the response payload.
// Content carries the untruncated original; the excerpt cut applies only
// inside the prompt's context block.
type Source struct {
	Title      string  `json:"title"`
	Source     string  `json:"source"`
	Similarity float64 `json:"similarity"`
	Content    string  `json:"content"`
}

// Response is the payload returned for one query.
type Response struct {
	Answer  string   `json:"answer"`
	Sources []Source `json:"sources"`
}

// Service sequences Embedder, Retriever and Generator for one query.
// It holds no mutable per-request state and is safe for concurrent use.
type Service struct {
	embedder  Embedder
	retriever Retriever
	generator Generator
	opts      Options
	logger    *slog.Logger
}

// New creates a Service with explicitly injected collaborators.
func New(embedder Embedder, retriever Retriever, generator Generator, opts Options, logger *slog.Logger) (*Service, error) {
	if embedder == nil {
		return nil, fmt.Errorf("embedder is required")
	}
	if retriever == nil {
		return nil, fmt.Errorf("retriever is required")
	}
	if generator == nil {
		return nil, fmt.Errorf("generator is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		embedder:  embedder,
		retriever: retriever,
		generator: generator,
		opts:      opts,
		logger:    logger,
	}, nil
}

// Answer runs the full pipeline for one query.
//
// Failure policy: an empty query fails fast with ErrEmptyQuery before any
// collaborator call; any collaborator failure aborts the request with a
// wrapped error and no retry. A store failure never falls back to a
// context-free answer. Only empty generation output degrades, to
// FallbackAnswer.
func (s *Service) Answer(ctx context.Context, query string) (*Response, error) {
	if strings.TrimSpace(query) == "" {
		return nil, ErrEmptyQuery
	}

	embedCtx, cancel := context.WithTimeout(ctx, embedTimeout)
	defer cancel()
	vec, err := s.embedder.Embed(embedCtx, query)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}

	searchCtx, cancel := context.WithTimeout(ctx, searchTimeout)
	defer cancel()
	matches, err := s.retriever.Search(searchCtx, vec, s.opts.SimilarityThreshold, s.opts.MatchLimit)
	if err != nil {
		return nil, fmt.Errorf("searching knowledge base: %w", err)
	}

	s.logMatches(matches)

	prompt := BuildPrompt(query, matches, s.opts.ExcerptChars)
	s.logger.Debug("assembled context block",
		"matches", len(matches),
		"context_chars", len(prompt.User),
		"policy_version", policyVersion,
	)

	genCtx, cancel := context.WithTimeout(ctx, generateTimeout)
	defer cancel()
	text, err := s.generator.Generate(genCtx, prompt.System, prompt.User)
	if err != nil {
		return nil, fmt.Errorf("generating answer: %w", err)
	}

	answer := text
	if strings.TrimSpace(answer) == "" {
		answer = FallbackAnswer
	}

	// Sources preserve the store's order and length exactly.
	sources := make([]Source, len(matches))
	for i, m := range matches {
		title := "Untitled"
		if m.Title != nil && *m.Title != "" {
			title = *m.Title
		}
		content := m.Content
		if content == "" {
			content = "..."
		}
		sources[i] = Source{
			Title:      title,
			Source:     m.Source,
			Similarity: m.Similarity,
			Content:    content,
		}
	}

	return &Response{Answer: answer, Sources: sources}, nil
}

// logMatches emits the raw retrieval result for operator diagnostics.
// Diagnostic only; it never alters pipeline behavior.
func (s *Service) logMatches(matches []knowledge.Match) {
	for i, m := range matches {
		var title string
		if m.Title != nil {
			title = *m.Title
		}
		s.logger.Debug("retrieved match",
			"rank", i+1,
			"source", m.Source,
			"similarity", fmt.Sprintf("%.3f", m.Similarity),
			"title", title,
		)
	}
}
