package config

import (
	"fmt"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds all configuration for newsgraph-engine.
// Configuration can come from YAML file (config.yaml) or environment
// variables; environment variables always override YAML values. Secrets
// (admin secret, LLM API key, database password) must only come from
// environment variables.
type Config struct {
	// Server configuration
	BindAddr string `yaml:"bind_addr" env:"BIND_ADDR" env-default:"127.0.0.1"`
	Port     string `yaml:"port" env:"PORT" env-default:"8080"`
	Env      string `yaml:"env" env:"ENVIRONMENT" env-default:"local"`
	Version  string `yaml:"-"` // Set at load time, not from config

	// AdminSecret gates the ingestion endpoint. Its absence is a fail-fast
	// condition at request time, not at startup.
	AdminSecret string `yaml:"-" env:"ADMIN_SECRET"` // Secret - not in YAML

	// Database configuration (PostgreSQL)
	Database DatabaseConfig `yaml:"database"`

	// LLM extraction service configuration
	LLM LLMConfig `yaml:"llm"`

	// Ingestion pipeline tuning
	Ingest IngestConfig `yaml:"ingest"`
}

// DatabaseConfig holds PostgreSQL database configuration.
type DatabaseConfig struct {
	Host           string `yaml:"host" env:"PGHOST" env-default:"localhost"`
	Port           int    `yaml:"port" env:"PGPORT" env-default:"5432"`
	User           string `yaml:"user" env:"PGUSER" env-default:"newsgraph"`
	Password       string `yaml:"-" env:"PGPASSWORD"` // Secret - not in YAML
	Database       string `yaml:"database" env:"PGDATABASE" env-default:"newsgraph_engine"`
	MaxConnections int32  `yaml:"max_connections" env:"PGMAX_CONNECTIONS" env-default:"25"`
	SSLMode        string `yaml:"ssl_mode" env:"PGSSLMODE" env-default:"disable"`
	MigrationsPath string `yaml:"migrations_path" env:"MIGRATIONS_PATH" env-default:"migrations"`
}

// LLMConfig holds the extraction service endpoint configuration.
// Provider selects the client implementation: "openai" talks to any
// OpenAI-compatible endpoint, "anthropic" uses the Anthropic Messages API.
type LLMConfig struct {
	Provider string `yaml:"provider" env:"LLM_PROVIDER" env-default:"openai"`
	BaseURL  string `yaml:"base_url" env:"LLM_BASE_URL" env-default:"https://api.openai.com/v1"`
	Model    string `yaml:"model" env:"LLM_MODEL" env-default:"gpt-4o-mini"`
	APIKey   string `yaml:"-" env:"LLM_API_KEY"` // Secret - not in YAML
}

// IngestConfig holds tuning knobs for the ingestion pipeline.
type IngestConfig struct {
	// FetchTimeoutSeconds caps the article page fetch.
	FetchTimeoutSeconds int `yaml:"fetch_timeout_seconds" env:"INGEST_FETCH_TIMEOUT_SECONDS" env-default:"12"`
	// MaxContentChars truncates sanitized text before extraction.
	MaxContentChars int `yaml:"max_content_chars" env:"INGEST_MAX_CONTENT_CHARS" env-default:"15000"`
	// MinContentChars rejects pages whose sanitized text is shorter
	// (paywalled or empty pages).
	MinContentChars int `yaml:"min_content_chars" env:"INGEST_MIN_CONTENT_CHARS" env-default:"100"`
	// UserAgent is sent on article page fetches.
	UserAgent string `yaml:"user_agent" env:"INGEST_USER_AGENT" env-default:"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"`
}

// Load reads configuration from config.yaml with environment variable
// overrides. The config file is optional; with no file, env vars and defaults
// apply. The version parameter is injected at build time.
func Load(version string) (*Config, error) {
	cfg := &Config{
		Version: version,
	}

	if _, err := os.Stat("config.yaml"); err == nil {
		if err := cleanenv.ReadConfig("config.yaml", cfg); err != nil {
			return nil, fmt.Errorf("failed to read config.yaml: %w", err)
		}
	} else {
		if err := cleanenv.ReadEnv(cfg); err != nil {
			return nil, fmt.Errorf("failed to read environment: %w", err)
		}
	}

	return cfg, nil
}

// ConnectionString returns a PostgreSQL connection string.
func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}
