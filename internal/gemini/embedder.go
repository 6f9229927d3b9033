// Package gemini adapts the Genkit Google AI plugin to the narrow embedding
// and generation interfaces the search pipeline consumes.
package gemini

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/firebase/genkit/go/ai"
	"google.golang.org/genai"

	"github.com/atlasdesk/atlasdesk/internal/knowledge"
)

// Embedder turns text into fixed-length vectors using a Gemini embedding
// model. Output is truncated to knowledge.VectorDimension to match the
// pgvector schema.
type Embedder struct {
	embedder ai.Embedder
	logger   *slog.Logger
}

// NewEmbedder creates an Embedder around a registered Genkit embedder.
func NewEmbedder(embedder ai.Embedder, logger *slog.Logger) (*Embedder, error) {
	if embedder == nil {
		return nil, fmt.Errorf("embedder is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Embedder{embedder: embedder, logger: logger}, nil
}

// Embed generates a vector embedding for the given text.
// Any transport or service failure is returned unwrapped beyond context;
// there is no local retry or fallback model.
func (e *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	dim := knowledge.VectorDimension
	resp, err := e.embedder.Embed(ctx, &ai.EmbedRequest{
		Input:   []*ai.Document{ai.DocumentFromText(text, nil)},
		Options: &genai.EmbedContentConfig{OutputDimensionality: &dim},
	})
	if err != nil {
		return nil, fmt.Errorf("embedding text: %w", err)
	}
	if len(resp.Embeddings) == 0 || len(resp.Embeddings[0].Embedding) == 0 {
		return nil, fmt.Errorf("empty embedding response")
	}
	return resp.Embeddings[0].Embedding, nil
}
