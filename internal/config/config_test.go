package config

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

// validConfig returns a configuration that passes Validate().
func validConfig() *Config {
	return &Config{
		ModelName:        "gemini-2.5-flash",
		EmbedderModel:    "text-embedding-004",
		PostgresHost:     "localhost",
		PostgresPort:     5432,
		PostgresUser:     "atlasdesk",
		PostgresPassword: "atlasdesk_dev_password",
		PostgresDBName:   "atlasdesk",
		PostgresSSLMode:  "disable",
		Search: SearchConfig{
			SimilarityThreshold: DefaultSimilarityThreshold,
			MatchLimit:          DefaultMatchLimit,
			ExcerptChars:        DefaultExcerptChars,
		},
		Import: ImportConfig{DataFile: "data/replies.json"},
	}
}

func TestValidate_OK(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "test-key")

	if err := validConfig().Validate(); err != nil {
		t.Fatalf("Validate() = %v, want nil", err)
	}
}

func TestValidate_MissingAPIKey(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")

	err := validConfig().Validate()
	if !errors.Is(err, ErrMissingAPIKey) {
		t.Errorf("Validate() = %v, want ErrMissingAPIKey", err)
	}
}

func TestValidate_Errors(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "test-key")

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{
			name:    "empty model name",
			mutate:  func(c *Config) { c.ModelName = "" },
			wantErr: ErrInvalidModelName,
		},
		{
			name:    "empty embedder model",
			mutate:  func(c *Config) { c.EmbedderModel = "" },
			wantErr: ErrInvalidEmbedderModel,
		},
		{
			name:    "negative threshold",
			mutate:  func(c *Config) { c.Search.SimilarityThreshold = -0.1 },
			wantErr: ErrInvalidThreshold,
		},
		{
			name:    "threshold of one",
			mutate:  func(c *Config) { c.Search.SimilarityThreshold = 1.0 },
			wantErr: ErrInvalidThreshold,
		},
		{
			name:    "zero match limit",
			mutate:  func(c *Config) { c.Search.MatchLimit = 0 },
			wantErr: ErrInvalidMatchLimit,
		},
		{
			name:    "excessive match limit",
			mutate:  func(c *Config) { c.Search.MatchLimit = 51 },
			wantErr: ErrInvalidMatchLimit,
		},
		{
			name:    "tiny excerpt budget",
			mutate:  func(c *Config) { c.Search.ExcerptChars = 10 },
			wantErr: ErrInvalidExcerptChars,
		},
		{
			name:    "empty import file",
			mutate:  func(c *Config) { c.Import.DataFile = "" },
			wantErr: ErrInvalidImportFile,
		},
		{
			name:    "empty postgres host",
			mutate:  func(c *Config) { c.PostgresHost = "" },
			wantErr: ErrInvalidPostgresHost,
		},
		{
			name:    "port out of range",
			mutate:  func(c *Config) { c.PostgresPort = 70000 },
			wantErr: ErrInvalidPostgresPort,
		},
		{
			name:    "empty db name",
			mutate:  func(c *Config) { c.PostgresDBName = "" },
			wantErr: ErrInvalidPostgresDBName,
		},
		{
			name:    "deprecated ssl mode",
			mutate:  func(c *Config) { c.PostgresSSLMode = "prefer" },
			wantErr: ErrInvalidPostgresSSLMode,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidate_NilConfig(t *testing.T) {
	var c *Config
	if err := c.Validate(); !errors.Is(err, ErrConfigNil) {
		t.Errorf("Validate() on nil = %v, want ErrConfigNil", err)
	}
}

func TestMaskSecret(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"short fully masked", "hunter2", maskedValue},
		{"exactly 8 fully masked", "12345678", maskedValue},
		{"long keeps edges", "my_long_secret_key_123", "my<" + maskedValue + ">23"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := maskSecret(tt.input); got != tt.want {
				t.Errorf("maskSecret(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestMarshalJSON_MasksPassword(t *testing.T) {
	cfg := validConfig()
	cfg.PostgresPassword = "super-secret-password"

	data, err := json.Marshal(cfg)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	if strings.Contains(string(data), "super-secret-password") {
		t.Errorf("marshaled config leaks password: %s", data)
	}
	if !strings.Contains(string(data), maskedValue) {
		t.Errorf("marshaled config missing mask: %s", data)
	}
}

func TestString_MasksPassword(t *testing.T) {
	cfg := validConfig()
	cfg.PostgresPassword = "another-secret-value"

	s := cfg.String()
	if strings.Contains(s, "another-secret-value") {
		t.Errorf("String() leaks password: %s", s)
	}
}
