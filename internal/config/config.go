// Package config provides application configuration management with
// multi-source priority.
//
// Configuration sources (highest to lowest priority):
//  1. Environment variables (runtime override)
//  2. Config file (~/.atlasdesk/config.yaml or ./config.yaml)
//  3. Default values
//
// Main configuration categories:
//   - AI: generation model and embedder model
//   - Storage: PostgreSQL connection (see storage.go)
//   - Search: similarity threshold, match limit, excerpt budget
//   - Import: bulk import data file
//   - Observability: Datadog trace export
//
// Security: the PostgreSQL password is never logged; MarshalJSON masks it.
// Validation: range checks in validation.go with sentinel errors for
// errors.Is() checks.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

var (
	// ErrConfigNil indicates the configuration is nil.
	ErrConfigNil = errors.New("configuration is nil")

	// ErrMissingAPIKey indicates the Gemini API key is missing.
	ErrMissingAPIKey = errors.New("missing API key")

	// ErrInvalidModelName indicates the model name is invalid.
	ErrInvalidModelName = errors.New("invalid model name")

	// ErrInvalidEmbedderModel indicates the embedder model is invalid.
	ErrInvalidEmbedderModel = errors.New("invalid embedder model")

	// ErrInvalidThreshold indicates the similarity threshold is out of range.
	ErrInvalidThreshold = errors.New("invalid similarity threshold")

	// ErrInvalidMatchLimit indicates the match limit is out of range.
	ErrInvalidMatchLimit = errors.New("invalid match limit")

	// ErrInvalidExcerptChars indicates the excerpt budget is out of range.
	ErrInvalidExcerptChars = errors.New("invalid excerpt budget")

	// ErrInvalidImportFile indicates the import data file path is empty.
	ErrInvalidImportFile = errors.New("invalid import data file")

	// ErrInvalidPostgresHost indicates the PostgreSQL host is invalid.
	ErrInvalidPostgresHost = errors.New("invalid PostgreSQL host")

	// ErrInvalidPostgresPort indicates the PostgreSQL port is out of range.
	ErrInvalidPostgresPort = errors.New("invalid PostgreSQL port")

	// ErrInvalidPostgresDBName indicates the PostgreSQL database name is invalid.
	ErrInvalidPostgresDBName = errors.New("invalid PostgreSQL database name")

	// ErrInvalidPostgresSSLMode indicates the PostgreSQL SSL mode is invalid.
	ErrInvalidPostgresSSLMode = errors.New("invalid PostgreSQL SSL mode")
)

// Default search tuning values.
//
// Threshold, limit and excerpt budget are deliberate product constants with
// no derived rationale; they are exposed through configuration rather than
// hardcoded at call sites.
const (
	// DefaultSimilarityThreshold is the minimum cosine similarity a stored
	// document must meet to be considered a match.
	DefaultSimilarityThreshold = 0.25

	// DefaultMatchLimit is the maximum number of matches retrieved per query.
	DefaultMatchLimit = 6

	// DefaultExcerptChars caps each match's content inside the generation
	// prompt. The cut is a hard character cut, not sentence-aware.
	DefaultExcerptChars = 700

	// DefaultEmbedderModel is the default Gemini embedder model.
	// Output is truncated to 768 dimensions to match the pgvector schema;
	// see knowledge.VectorDimension.
	DefaultEmbedderModel = "text-embedding-004"

	// DefaultModelName is the default generation model.
	DefaultModelName = "gemini-2.5-flash"
)

// SearchConfig holds retrieval tuning for the query pipeline.
type SearchConfig struct {
	SimilarityThreshold float64 `mapstructure:"similarity_threshold" json:"similarity_threshold"`
	MatchLimit          int     `mapstructure:"match_limit" json:"match_limit"`
	ExcerptChars        int     `mapstructure:"excerpt_chars" json:"excerpt_chars"`
}

// ImportConfig holds bulk import settings.
type ImportConfig struct {
	// DataFile is the JSON file read by the bulk import job.
	DataFile string `mapstructure:"data_file" json:"data_file"`
}

// DatadogConfig holds trace export settings for the local Datadog Agent.
type DatadogConfig struct {
	AgentHost   string `mapstructure:"agent_host" json:"agent_host"`
	Environment string `mapstructure:"environment" json:"environment"`
	ServiceName string `mapstructure:"service_name" json:"service_name"`
}

// Config stores application configuration.
// SECURITY: sensitive fields are explicitly masked in MarshalJSON().
type Config struct {
	// AI model configuration
	ModelName     string `mapstructure:"model_name" json:"model_name"`
	EmbedderModel string `mapstructure:"embedder_model" json:"embedder_model"`

	// Storage configuration (see storage.go for documentation)
	PostgresHost     string `mapstructure:"postgres_host" json:"postgres_host"`
	PostgresPort     int    `mapstructure:"postgres_port" json:"postgres_port"`
	PostgresUser     string `mapstructure:"postgres_user" json:"postgres_user"`
	PostgresPassword string `mapstructure:"postgres_password" json:"postgres_password"` // SENSITIVE: masked in MarshalJSON
	PostgresDBName   string `mapstructure:"postgres_db_name" json:"postgres_db_name"`
	PostgresSSLMode  string `mapstructure:"postgres_ssl_mode" json:"postgres_ssl_mode"`

	// Retrieval tuning
	Search SearchConfig `mapstructure:"search" json:"search"`

	// Bulk import
	Import ImportConfig `mapstructure:"import" json:"import"`

	// Serve-mode configuration
	CORSOrigins []string `mapstructure:"cors_origins" json:"cors_origins"`
	TrustProxy  bool     `mapstructure:"trust_proxy" json:"trust_proxy"`
	RateBurst   int      `mapstructure:"rate_burst" json:"rate_burst"`

	// Observability
	Datadog DatadogConfig `mapstructure:"datadog" json:"datadog"`
}

// Load loads configuration.
// Priority: Environment variables > Configuration file > Default values
func Load() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("getting user home directory: %w", err)
	}

	configDir := filepath.Join(home, ".atlasdesk")

	if err := os.MkdirAll(configDir, 0o750); err != nil {
		return nil, fmt.Errorf("creating config directory: %w", err)
	}

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(configDir)
	viper.AddConfigPath(".") // Also support current directory

	setDefaults()
	bindEnvVariables()

	if err := viper.ReadInConfig(); err != nil {
		// Configuration file not found is not an error, use default values
		var configNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configNotFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		slog.Debug("configuration file not found, using default values",
			"search_paths", []string{configDir, "."},
			"config_name", "config.yaml")
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing configuration: %w", err)
	}

	// DATABASE_URL overrides individual postgres_* settings.
	if err := cfg.parseDatabaseURL(); err != nil {
		return nil, fmt.Errorf("parsing DATABASE_URL: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets all default configuration values.
func setDefaults() {
	// AI defaults
	viper.SetDefault("model_name", DefaultModelName)
	viper.SetDefault("embedder_model", DefaultEmbedderModel)

	// PostgreSQL defaults (matching docker-compose.yml)
	viper.SetDefault("postgres_host", "localhost")
	viper.SetDefault("postgres_port", 5432)
	viper.SetDefault("postgres_user", "atlasdesk")
	viper.SetDefault("postgres_password", "atlasdesk_dev_password")
	viper.SetDefault("postgres_db_name", "atlasdesk")
	viper.SetDefault("postgres_ssl_mode", "disable")

	// Search defaults
	viper.SetDefault("search.similarity_threshold", DefaultSimilarityThreshold)
	viper.SetDefault("search.match_limit", DefaultMatchLimit)
	viper.SetDefault("search.excerpt_chars", DefaultExcerptChars)

	// Import defaults
	viper.SetDefault("import.data_file", filepath.Join("data", "replies.json"))

	// Serve defaults
	viper.SetDefault("cors_origins", []string{"http://localhost:3000"})
	viper.SetDefault("trust_proxy", false)
	viper.SetDefault("rate_burst", 60)

	// Datadog defaults
	viper.SetDefault("datadog.agent_host", "localhost:4318")
	viper.SetDefault("datadog.environment", "dev")
	viper.SetDefault("datadog.service_name", "atlasdesk")
}

// bindEnvVariables binds environment variable overrides explicitly.
//
// GEMINI_API_KEY is read directly by the Genkit Google AI plugin, not via
// Viper; Validate() only checks its presence.
func bindEnvVariables() {
	// Hardcoded keys cannot fail to bind; a panic here is a bug, not a
	// runtime error.
	mustBind := func(key, envVar string) {
		if err := viper.BindEnv(key, envVar); err != nil {
			panic(fmt.Sprintf("BUG: failed to bind %q to %q: %v", key, envVar, err))
		}
	}

	mustBind("model_name", "ATLASDESK_MODEL_NAME")
	mustBind("embedder_model", "ATLASDESK_EMBEDDER_MODEL")
	mustBind("cors_origins", "ATLASDESK_CORS_ORIGINS")
	mustBind("trust_proxy", "ATLASDESK_TRUST_PROXY")
	mustBind("rate_burst", "ATLASDESK_RATE_BURST")
	mustBind("import.data_file", "ATLASDESK_IMPORT_FILE")
	mustBind("datadog.agent_host", "DD_AGENT_HOST")
}

// maskedValue is the placeholder for masked sensitive data.
// Full-width blocks avoid accidental substring matches against real secrets.
const maskedValue = "████████"

// maskSecret masks a secret string for safe logging.
// Secrets of 8 bytes or fewer are fully masked; longer secrets keep the
// first and last 2 characters for debug utility.
func maskSecret(s string) string {
	if s == "" {
		return ""
	}
	if len(s) <= 8 {
		return maskedValue
	}
	return s[:2] + "<" + maskedValue + ">" + s[len(s)-2:]
}

// MarshalJSON implements json.Marshaler with explicit sensitive field masking.
// When adding new sensitive fields, update this method.
func (c Config) MarshalJSON() ([]byte, error) {
	type alias Config
	a := alias(c)
	a.PostgresPassword = maskSecret(a.PostgresPassword)
	data, err := json.Marshal(a)
	if err != nil {
		return nil, fmt.Errorf("marshal config: %w", err)
	}
	return data, nil
}

// String implements Stringer to prevent accidental printing of secrets.
func (c Config) String() string {
	data, err := c.MarshalJSON()
	if err != nil {
		return fmt.Sprintf("Config{error: %v}", err)
	}
	return string(data)
}
