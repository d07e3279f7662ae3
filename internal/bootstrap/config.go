package bootstrap

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/applytrack/applytrack/config"
)

// InitLogger initializes the structured logger.
func InitLogger() *slog.Logger {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)
	return logger
}

// LoadConfig loads configuration from environment variables.
func LoadConfig() (config.AppConfig, error) {
	// Load .env file if it exists (development)
	if err := godotenv.Load(); err != nil {
		var pathErr *os.PathError
		if !errors.As(err, &pathErr) {
			return config.AppConfig{}, fmt.Errorf("load .env file: %w", err)
		}
	}

	var cfg config.AppConfig
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}

	cfg.Sanitize()
	return cfg, nil
}

// ValidateConfig rejects combinations that cannot start a working server and
// warns about ones that start with a feature unavailable.
func ValidateConfig(cfg *config.AppConfig, logger *slog.Logger) error {
	if cfg == nil {
		return errors.New("config is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Extraction.APIKey == "" {
		logger.Warn("OPENAI_API_KEY is empty; screenshot parsing will fail until it is set")
	}
	var errs []error
	if cfg.Storage.Driver == config.StorageSupabase &&
		(cfg.Storage.SupabaseURL == "" || cfg.Storage.SupabaseKey == "") {
		errs = append(errs, errors.New("STORAGE_SUPABASE_URL and STORAGE_SUPABASE_KEY are required for supabase storage"))
	}
	if cfg.Auth.Mode == config.AuthModeOAuth &&
		(cfg.Auth.OAuth.ClientID == "" || cfg.Auth.OAuth.ClientSecret == "") {
		errs = append(errs, errors.New("OAUTH_CLIENT_ID and OAUTH_CLIENT_SECRET are required for oauth mode"))
	}
	if cfg.Auth.Mode == config.AuthModeMock && !cfg.IsDev {
		logger.Warn("mock authentication enabled outside development mode")
	}
	return errors.Join(errs...)
}
