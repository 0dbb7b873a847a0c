package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Vector index backends.
const (
	VectorBackendQdrant   = "qdrant"
	VectorBackendPgVector = "pgvector"
)

// Sync failure policies, mirrored from the indexer so config stays free of
// domain imports.
const (
	FailurePolicyFail = "fail"
	FailurePolicyLog  = "log"
)

// RetryEnv is the per-adapter retry policy. Zero retries and no timeout are
// the defaults.
type RetryEnv struct {
	MaxRetries    int `envconfig:"MAX_RETRIES" default:"0"`
	TimeoutMS     int `envconfig:"TIMEOUT_MS" default:"0"`
	BackoffBaseMS int `envconfig:"BACKOFF_BASE_MS" default:"200"`
}

// Timeout returns the per-attempt timeout; zero means none.
func (r RetryEnv) Timeout() time.Duration {
	return time.Duration(r.TimeoutMS) * time.Millisecond
}

// BackoffBase returns the delay before the first retry.
func (r RetryEnv) BackoffBase() time.Duration {
	return time.Duration(r.BackoffBaseMS) * time.Millisecond
}

// Config holds all configuration for the application.
type Config struct {
	// DatabaseURL selects the relational store: sqlite:///path or postgres://...
	DatabaseURL string `envconfig:"DATABASE_URL" default:"sqlite:///./data/ainotes.db"`

	SecretKeyJWT             string `envconfig:"SECRET_KEY_JWT"`
	AccessTokenExpireMinutes int    `envconfig:"ACCESS_TOKEN_EXPIRE_MINUTES" default:"300000"`

	OpenAIAPIKey   string `envconfig:"OPENAI_API_KEY"`
	OpenAIBaseURL  string `envconfig:"OPENAI_BASE_URL"`
	EmbeddingModel string `envconfig:"EMBEDDING_MODEL" default:"text-embedding-3-small"`
	ChatModel      string `envconfig:"CHAT_MODEL" default:"gpt-4o-mini"`

	VectorBackend    string `envconfig:"VECTOR_BACKEND" default:"qdrant"`
	QdrantURL        string `envconfig:"QDRANT_URL" default:"http://localhost:6333"`
	QdrantAPIKey     string `envconfig:"QDRANT_API_KEY"`
	VectorCollection string `envconfig:"VECTOR_COLLECTION" default:"notes-api"`
	// VectorDimension must match the embedding model output.
	VectorDimension int `envconfig:"VECTOR_DIMENSION" default:"1536"`
	RAGTopK         int `envconfig:"RAG_TOP_K" default:"5"`

	SyncWriteFailurePolicy  string `envconfig:"SYNC_WRITE_FAILURE_POLICY" default:"fail"`
	SyncDeleteFailurePolicy string `envconfig:"SYNC_DELETE_FAILURE_POLICY" default:"log"`

	EmbeddingRetry  RetryEnv `envconfig:"EMBEDDING"`
	GenerationRetry RetryEnv `envconfig:"GENERATION"`
	VectorRetry     RetryEnv `envconfig:"VECTOR"`

	LogLevel  string `envconfig:"LOG_LEVEL" default:"INFO"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"text"`

	// JaegerEndpoint enables tracing when set.
	JaegerEndpoint    string  `envconfig:"JAEGER_ENDPOINT"`
	TraceSampleRatio  float64 `envconfig:"TRACE_SAMPLE_RATIO" default:"1"`
	APIPort           string  `envconfig:"API_PORT" default:"8000"`
	ShutdownTimeoutMS int     `envconfig:"SHUTDOWN_TIMEOUT_MS" default:"10000"`
}

// AccessTokenTTL returns the lifetime of issued access tokens.
func (c *Config) AccessTokenTTL() time.Duration {
	return time.Duration(c.AccessTokenExpireMinutes) * time.Minute
}

// ShutdownTimeout bounds graceful shutdown.
func (c *Config) ShutdownTimeout() time.Duration {
	return time.Duration(c.ShutdownTimeoutMS) * time.Millisecond
}

// SlogLevel maps LOG_LEVEL to a slog level. Unknown values mean INFO.
func (c *Config) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(c.LogLevel))); err != nil {
		return slog.LevelInfo
	}
	return level
}

// Load reads configuration from environment variables and returns a Config struct.
// If a .env file exists in the current directory or a parent, it is loaded
// first. Environment variables already set take precedence over .env values.
func Load() (*Config, error) {
	loadDotEnv()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if err := ensureSQLiteDir(cfg.DatabaseURL); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// loadDotEnv loads the nearest .env walking up from the working directory.
func loadDotEnv() {
	wd, err := os.Getwd()
	if err != nil {
		return
	}
	dir := wd
	for i := 0; i < 5; i++ { // Limit search depth
		envPath := filepath.Join(dir, ".env")
		if _, err := os.Stat(envPath); err == nil {
			_ = godotenv.Load(envPath)
			return
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return // Reached filesystem root
		}
		dir = parent
	}
}

// Validate checks required fields and enumerations.
func (c *Config) Validate() error {
	var errs []error

	if c.SecretKeyJWT == "" {
		errs = append(errs, errors.New("SECRET_KEY_JWT is required"))
	}
	if c.AccessTokenExpireMinutes <= 0 {
		errs = append(errs, errors.New("ACCESS_TOKEN_EXPIRE_MINUTES must be greater than 0"))
	}
	if !strings.HasPrefix(c.DatabaseURL, "sqlite:///") &&
		!strings.HasPrefix(c.DatabaseURL, "postgres://") &&
		!strings.HasPrefix(c.DatabaseURL, "postgresql://") {
		errs = append(errs, fmt.Errorf("DATABASE_URL must start with sqlite:/// or postgres://, got %q", c.DatabaseURL))
	}

	switch c.VectorBackend {
	case VectorBackendQdrant:
		if _, err := url.Parse(c.QdrantURL); err != nil || c.QdrantURL == "" {
			errs = append(errs, fmt.Errorf("QDRANT_URL must be a valid URL, got %q", c.QdrantURL))
		}
	case VectorBackendPgVector:
		if !strings.HasPrefix(c.DatabaseURL, "postgres") {
			errs = append(errs, errors.New("VECTOR_BACKEND=pgvector requires a postgres DATABASE_URL"))
		}
	default:
		errs = append(errs, fmt.Errorf("VECTOR_BACKEND must be %q or %q, got %q", VectorBackendQdrant, VectorBackendPgVector, c.VectorBackend))
	}

	if c.VectorCollection == "" {
		errs = append(errs, errors.New("VECTOR_COLLECTION is required"))
	}
	if c.VectorDimension <= 0 {
		errs = append(errs, errors.New("VECTOR_DIMENSION must be greater than 0"))
	}
	if c.RAGTopK <= 0 {
		errs = append(errs, errors.New("RAG_TOP_K must be greater than 0"))
	}

	for name, policy := range map[string]string{
		"SYNC_WRITE_FAILURE_POLICY":  c.SyncWriteFailurePolicy,
		"SYNC_DELETE_FAILURE_POLICY": c.SyncDeleteFailurePolicy,
	} {
		if policy != FailurePolicyFail && policy != FailurePolicyLog {
			errs = append(errs, fmt.Errorf("%s must be %q or %q, got %q", name, FailurePolicyFail, FailurePolicyLog, policy))
		}
	}

	for name, r := range map[string]RetryEnv{
		"EMBEDDING":  c.EmbeddingRetry,
		"GENERATION": c.GenerationRetry,
		"VECTOR":     c.VectorRetry,
	} {
		if r.MaxRetries < 0 || r.TimeoutMS < 0 || r.BackoffBaseMS < 0 {
			errs = append(errs, fmt.Errorf("%s retry settings must not be negative", name))
		}
	}

	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("LOG_FORMAT must be text or json, got %q", c.LogFormat))
	}

	return errors.Join(errs...)
}

// ensureSQLiteDir creates the parent directory of a SQLite database file.
func ensureSQLiteDir(databaseURL string) error {
	path, ok := strings.CutPrefix(databaseURL, "sqlite:///")
	if !ok || path == "" || path == ":memory:" {
		return nil
	}
	path, _, _ = strings.Cut(path, "?")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}
	return nil
}
