package config

import (
	"os"
	"strings"
)

// AppConfig is the main application configuration struct that composes
// domain-specific configuration from separate files.
//
// Configuration is loaded from environment variables using the
// github.com/caarlos0/env library. See individual domain config
// files for details on available environment variables:
//   - auth.go: Authentication configuration
//   - database.go: Record store, Postgres, SQLite and Redis configuration
//   - http.go: HTTP server configuration
//   - extraction.go: Screenshot extraction (OpenAI-compatible) configuration
//   - storage.go: Screenshot object storage configuration
//   - observability.go: Metrics configuration
type AppConfig struct {
	// IsDev controls development mode behavior (template reloading, local storage defaults).
	// Set DEV=true or APP_ENV=development for development mode.
	IsDev bool `env:"DEV" envDefault:"false"`

	// Authentication configuration
	Auth AuthConfig

	// Record store configuration
	RecordStore RecordStoreConfig
	Postgres    DBConfig     `envPrefix:"DB_"`
	SQLite      SQLiteConfig `envPrefix:"SQLITE_"`
	Redis       RedisConfig  `envPrefix:"REDIS_"`

	// HTTP server configuration
	HTTP HTTPConfig

	// Screenshot extraction configuration
	Extraction ExtractionConfig `envPrefix:"OPENAI_"`

	// Per-user rate limiting for the extraction endpoint
	RateLimit RateLimitConfig `envPrefix:"RATE_LIMIT_"`

	// Screenshot storage configuration
	Storage StorageConfig `envPrefix:"STORAGE_"`

	// Upload flow configuration
	Upload UploadConfig `envPrefix:"UPLOAD_"`

	// Observability configuration
	Observability ObservabilityConfig
}

// Sanitize applies guardrails to configuration values loaded from env.
// This should be called after loading configuration from environment variables.
func (c *AppConfig) Sanitize() {
	c.detectDevMode()

	c.HTTP.Sanitize()
	c.RecordStore.Sanitize()
	c.Extraction.Sanitize()
	c.RateLimit.Sanitize()
	c.Storage.Sanitize(c.HTTP.BaseURL)
	c.Upload.Sanitize()
	c.Observability.Sanitize()
}

// detectDevMode checks both DEV and APP_ENV environment variables.
func (c *AppConfig) detectDevMode() {
	if !c.IsDev {
		appEnv := strings.ToLower(os.Getenv("APP_ENV"))
		c.IsDev = appEnv == "development" || appEnv == "dev"
	}
}
