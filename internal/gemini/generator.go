package gemini

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/genkit"
)

// Generator produces chat completions from a two-turn prompt using a Gemini
// generation model.
type Generator struct {
	g         *genkit.Genkit
	modelName string
	logger    *slog.Logger
}

// NewGenerator creates a Generator for the given model.
// modelName may be bare ("gemini-2.5-flash") or provider-qualified
// ("googleai/gemini-2.5-flash").
func NewGenerator(g *genkit.Genkit, modelName string, logger *slog.Logger) (*Generator, error) {
	if g == nil {
		return nil, fmt.Errorf("genkit instance is required")
	}
	if modelName == "" {
		return nil, fmt.Errorf("model name is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Generator{g: g, modelName: fullModelName(modelName), logger: logger}, nil
}

// Generate sends the system instruction and user turn to the model and
// returns the generated text. An empty response is not an error; callers
// decide how to degrade.
func (a *Generator) Generate(ctx context.Context, system, user string) (string, error) {
	resp, err := genkit.Generate(ctx, a.g,
		ai.WithModelName(a.modelName),
		ai.WithSystem(system),
		ai.WithPrompt(user),
	)
	if err != nil {
		return "", fmt.Errorf("generating completion: %w", err)
	}

	text := resp.Text()
	a.logger.Debug("generation completed", "model", a.modelName, "response_length", len(text))
	return text, nil
}

// fullModelName returns the provider-qualified model name for Genkit.
func fullModelName(name string) string {
	if strings.Contains(name, "/") {
		return name
	}
	return "googleai/" + name
}
