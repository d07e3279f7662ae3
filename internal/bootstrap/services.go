package bootstrap

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/redis/go-redis/v9"

	"github.com/applytrack/applytrack/config"
	"github.com/applytrack/applytrack/internal/adapters/objectstore"
	"github.com/applytrack/applytrack/internal/adapters/openai"
	redisadapter "github.com/applytrack/applytrack/internal/adapters/redis"
	"github.com/applytrack/applytrack/internal/observability/statsd"
	"github.com/applytrack/applytrack/internal/ports"
	"github.com/applytrack/applytrack/internal/service"
	"github.com/applytrack/applytrack/internal/service/upload"
)

// ServiceContainer holds all application services.
type ServiceContainer struct {
	Auth       *service.AuthService
	Jobs       *service.JobApplicationService
	Extraction *service.ExtractionService
	Forms      *upload.Registry
	Objects    ports.ObjectStore
	// Files serves locally stored screenshots; nil for remote object stores.
	Files   http.Handler
	Metrics *statsd.Client
}

// ServiceDeps groups dependencies for service initialization.
type ServiceDeps struct {
	Config      *config.AppConfig
	Records     ports.JobApplicationStore
	RedisClient redis.UniversalClient
	Logger      *slog.Logger
}

// NewServices wires adapters into services. Auth and the rate limiter share
// the Redis client.
func NewServices(deps *ServiceDeps) (*ServiceContainer, error) {
	if deps == nil || deps.Config == nil {
		return nil, errors.New("service deps and config are required")
	}
	if deps.Records == nil {
		return nil, errors.New("record store is required")
	}
	cfg := deps.Config
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	metricsSink := buildMetrics(logger, cfg.Observability)

	auth, err := BuildAuthService(AuthConfig{Auth: cfg.Auth, RedisClient: deps.RedisClient, Logger: logger})
	if err != nil {
		return nil, err
	}

	objects, files, err := buildObjectStore(cfg.Storage, logger)
	if err != nil {
		return nil, err
	}

	completion, err := openai.NewClient(openai.Config{
		APIKey:      cfg.Extraction.APIKey,
		BaseURL:     cfg.Extraction.BaseURL,
		Model:       cfg.Extraction.Model,
		MaxTokens:   cfg.Extraction.MaxTokens,
		Timeout:     cfg.Extraction.Timeout,
		MessagePath: cfg.Extraction.MessagePath,
		Logger:      logger,
	})
	if err != nil {
		return nil, fmt.Errorf("create completion client: %w", err)
	}

	limiter, err := buildRateLimiter(cfg.RateLimit, deps.RedisClient, logger)
	if err != nil {
		return nil, err
	}

	jobs := service.NewJobApplicationService(service.JobApplicationServiceOptions{
		Store:          deps.Records,
		ScreenshotHost: cfg.Storage.AllowedHost,
		Logger:         logger,
		Metrics:        metricsSink,
	})
	extraction := service.NewExtractionService(service.ExtractionServiceOptions{
		Client:  completion,
		Limiter: limiter,
		Logger:  logger,
		Metrics: metricsSink,
	})

	forms, err := upload.NewRegistry(upload.RegistryOptions{
		Deps: upload.Deps{
			Objects:   objects,
			Extractor: extraction,
			Records:   jobs,
		},
		IdleTTL: cfg.Upload.IdleTTL,
		Logger:  logger.With("component", "upload_forms"),
		Metrics: metricsSink,
	})
	if err != nil {
		return nil, fmt.Errorf("create upload registry: %w", err)
	}

	return &ServiceContainer{
		Auth:       auth,
		Jobs:       jobs,
		Extraction: extraction,
		Forms:      forms,
		Objects:    objects,
		Files:      files,
		Metrics:    metricsSink,
	}, nil
}

// buildMetrics returns a statsd client; a dial failure degrades to a no-op sink.
func buildMetrics(logger *slog.Logger, cfg config.ObservabilityConfig) *statsd.Client {
	if !cfg.Metrics.IsEnabled() {
		return nil
	}
	client, err := statsd.NewClient(statsd.Config{
		Enabled: true,
		Address: cfg.Metrics.StatsdAddress,
		Prefix:  cfg.Metrics.Prefix,
		Logger:  logger,
	})
	if err != nil {
		logger.Error("failed to initialise statsd client", "error", err)
		return nil
	}
	return client
}

//nolint:ireturn // the driver is chosen at runtime.
func buildObjectStore(cfg config.StorageConfig, logger *slog.Logger) (ports.ObjectStore, http.Handler, error) {
	switch cfg.Driver {
	case config.StorageSupabase:
		store, err := objectstore.NewSupabaseStore(objectstore.SupabaseConfig{
			URL:     cfg.SupabaseURL,
			Key:     cfg.SupabaseKey,
			Bucket:  cfg.Bucket,
			Timeout: cfg.Timeout,
			Logger:  logger,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("create supabase store: %w", err)
		}
		return store, nil, nil

	case config.StorageLocal, "":
		store, err := objectstore.NewLocalStore(cfg.LocalDir, cfg.PublicBaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("create local store: %w", err)
		}
		logger.Info("storing screenshots locally", "dir", cfg.LocalDir, "public_base_url", cfg.PublicBaseURL)
		return store, store.Handler(), nil

	default:
		return nil, nil, fmt.Errorf("unsupported storage driver %q", cfg.Driver)
	}
}

// buildRateLimiter returns nil when limiting is disabled.
//
//nolint:ireturn // nil interface disables limiting in the extraction service.
func buildRateLimiter(cfg config.RateLimitConfig, client redis.UniversalClient, logger *slog.Logger) (ports.RateLimiter, error) {
	if !cfg.Enabled {
		return nil, nil
	}
	if client == nil {
		logger.Warn("extraction rate limiting disabled: redis client not configured")
		return nil, nil
	}
	limiter, err := redisadapter.NewRateLimiter(client, cfg.Limit, cfg.Window)
	if err != nil {
		return nil, fmt.Errorf("create rate limiter: %w", err)
	}
	return limiter, nil
}
