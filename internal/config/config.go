// Package config loads and validates application configuration from environment variables.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all configuration values for the API server.
// Values are populated by Load from environment variables.
type Config struct {
	// Port is the TCP port the HTTP server listens on.
	Port string `envconfig:"PORT" default:"8080"`

	// DatabaseURL is the Postgres connection string. Required.
	DatabaseURL string `envconfig:"DATABASE_URL"`

	// LogLevel controls the minimum log level: debug, info, warn, error.
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	// LogFormat selects the log handler: json for machines, text for a terminal.
	LogFormat string `envconfig:"LOG_FORMAT" default:"json"`

	// CORSOrigins is the list of origins allowed to call the REST API.
	// Generator endpoints accept any origin regardless of this list.
	CORSOrigins []string `envconfig:"CORS_ORIGINS" default:"http://localhost:5173"`

	MaxBodyBytes   int64 `envconfig:"MAX_BODY_BYTES" default:"1048576"`
	MaxUploadBytes int64 `envconfig:"MAX_UPLOAD_BYTES" default:"20971520"`

	// StorageDir is the root directory of the document object store.
	StorageDir string `envconfig:"STORAGE_DIR" default:"./data/objects"`

	// PublicBaseURL prefixes public document URLs.
	PublicBaseURL string `envconfig:"PUBLIC_BASE_URL" default:"http://localhost:8080"`

	// JWTSecret signs and verifies bearer tokens. Required.
	JWTSecret string        `envconfig:"JWT_SECRET"`
	TokenTTL  time.Duration `envconfig:"TOKEN_TTL" default:"24h"`

	// FunctionsAPIKey guards the /functions/v1 endpoints. Empty leaves them open.
	FunctionsAPIKey string `envconfig:"FUNCTIONS_API_KEY"`

	// OpenAIAPIKey switches itinerary generation and note summaries to the
	// chat-completion backend. Empty selects the built-in template planner.
	OpenAIAPIKey  string        `envconfig:"OPENAI_API_KEY"`
	OpenAIURL     string        `envconfig:"OPENAI_API_URL" default:"https://api.openai.com/v1/chat/completions"`
	OpenAIModel   string        `envconfig:"OPENAI_MODEL" default:"gpt-4o"`
	OpenAITimeout time.Duration `envconfig:"OPENAI_TIMEOUT" default:"90s"`

	// LLMLenientJSON enables best-effort recovery of JSON wrapped in prose or
	// code fences. Strict decoding is always attempted first.
	LLMLenientJSON bool `envconfig:"LLM_LENIENT_JSON" default:"true"`
}

// LLMEnabled reports whether a completion backend is configured.
func (c Config) LLMEnabled() bool {
	return c.OpenAIAPIKey != ""
}

// Load reads configuration from environment variables and returns a Config.
// Returns an error listing any required variables that are not set.
func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("config.Load: %w", err)
	}

	var missing []string
	if cfg.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}
	if cfg.JWTSecret == "" {
		missing = append(missing, "JWT_SECRET")
	}
	if len(missing) > 0 {
		return Config{}, fmt.Errorf("required environment variables not set: %s", strings.Join(missing, ", "))
	}

	cfg.CORSOrigins = trimAll(cfg.CORSOrigins)
	cfg.LogFormat = strings.ToLower(cfg.LogFormat)
	if cfg.LogFormat != "json" && cfg.LogFormat != "text" {
		return Config{}, fmt.Errorf("LOG_FORMAT must be json or text, got %q", cfg.LogFormat)
	}
	if cfg.MaxBodyBytes <= 0 || cfg.MaxUploadBytes <= 0 {
		return Config{}, fmt.Errorf("MAX_BODY_BYTES and MAX_UPLOAD_BYTES must be positive")
	}
	cfg.PublicBaseURL = strings.TrimRight(cfg.PublicBaseURL, "/")

	return cfg, nil
}

// trimAll trims each entry and drops empty ones.
func trimAll(in []string) []string {
	var out []string
	for _, part := range in {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}
