package config

import (
	"fmt"
	"os"
	"slices"
)

// Validate validates configuration values.
// Returns sentinel errors that can be checked with errors.Is().
func (c *Config) Validate() error {
	if c == nil {
		return ErrConfigNil
	}

	// API key is required for embedding and generation.
	if os.Getenv("GEMINI_API_KEY") == "" {
		return fmt.Errorf("%w: GEMINI_API_KEY environment variable is required\n"+
			"Get your API key at: https://ai.google.dev/gemini-api/docs/api-key",
			ErrMissingAPIKey)
	}

	if c.ModelName == "" {
		return fmt.Errorf("%w: model_name cannot be empty", ErrInvalidModelName)
	}

	if c.EmbedderModel == "" {
		return fmt.Errorf("%w: embedder_model cannot be empty", ErrInvalidEmbedderModel)
	}

	// Cosine similarity is bounded by [-1, 1]; a threshold of 1 or more
	// would reject every match.
	if c.Search.SimilarityThreshold < 0 || c.Search.SimilarityThreshold >= 1 {
		return fmt.Errorf("%w: must be in [0, 1), got %.3f",
			ErrInvalidThreshold, c.Search.SimilarityThreshold)
	}

	if c.Search.MatchLimit < 1 || c.Search.MatchLimit > 50 {
		return fmt.Errorf("%w: must be between 1 and 50, got %d",
			ErrInvalidMatchLimit, c.Search.MatchLimit)
	}

	if c.Search.ExcerptChars < 100 || c.Search.ExcerptChars > 10000 {
		return fmt.Errorf("%w: must be between 100 and 10000, got %d",
			ErrInvalidExcerptChars, c.Search.ExcerptChars)
	}

	if c.Import.DataFile == "" {
		return fmt.Errorf("%w: import.data_file cannot be empty", ErrInvalidImportFile)
	}

	if c.PostgresHost == "" {
		return fmt.Errorf("%w: host cannot be empty", ErrInvalidPostgresHost)
	}

	if c.PostgresPort < 1 || c.PostgresPort > 65535 {
		return fmt.Errorf("%w: must be between 1 and 65535, got %d", ErrInvalidPostgresPort, c.PostgresPort)
	}

	if c.PostgresDBName == "" {
		return fmt.Errorf("%w: database name cannot be empty", ErrInvalidPostgresDBName)
	}

	// Modern SSL modes only - exclude deprecated allow/prefer (MITM vulnerable).
	validSSLModes := []string{"disable", "require", "verify-ca", "verify-full"}
	if !slices.Contains(validSSLModes, c.PostgresSSLMode) {
		return fmt.Errorf("%w: %q is not valid, must be one of: %v",
			ErrInvalidPostgresSSLMode, c.PostgresSSLMode, validSSLModes)
	}

	return nil
}
