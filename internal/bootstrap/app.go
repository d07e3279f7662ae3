package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/applytrack/applytrack/config"
	httpx "github.com/applytrack/applytrack/internal/http"
)

// formSweepInterval is how often idle upload forms are evicted.
const formSweepInterval = time.Minute

// Run connects infrastructure, serves HTTP and sweeps idle upload forms until
// ctx is cancelled.
func Run(ctx context.Context, cfg *config.AppConfig, logger *slog.Logger) error {
	if err := ValidateConfig(cfg, logger); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	dbCfg := DatabaseConfig{
		RecordStore: cfg.RecordStore,
		DBConfig:    cfg.Postgres,
		SQLite:      cfg.SQLite,
		RedisConfig: cfg.Redis,
		Logger:      logger,
	}

	records, err := OpenRecordStore(ctx, dbCfg)
	if err != nil {
		return fmt.Errorf("open record store: %w", err)
	}
	defer func() {
		if cerr := records.Close(); cerr != nil {
			logger.ErrorContext(ctx, "close record store failed", "error", cerr)
		}
	}()

	redisClient, err := ConnectRedis(dbCfg)
	if err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}
	defer func() {
		if cerr := redisClient.Close(); cerr != nil {
			logger.ErrorContext(ctx, "close redis failed", "error", cerr)
		}
	}()

	services, err := NewServices(&ServiceDeps{
		Config:      cfg,
		Records:     records.Store,
		RedisClient: redisClient,
		Logger:      logger,
	})
	if err != nil {
		return err
	}
	defer func() {
		if cerr := services.Metrics.Close(); cerr != nil {
			logger.ErrorContext(ctx, "close metrics sink failed", "error", cerr)
		}
	}()

	server, err := NewHTTPServer(HTTPServerConfig{
		Config:          cfg,
		Services:        services,
		ReadinessChecks: ReadinessChecks(records, redisClient),
		Logger:          logger,
	})
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return ServeHTTP(gctx, server, cfg.HTTP.ShutdownTimeout, logger)
	})
	g.Go(func() error {
		return services.Forms.Run(gctx, formSweepInterval)
	})
	return g.Wait()
}

// ReadinessChecks probes the record store and Redis.
func ReadinessChecks(records *RecordStore, redisClient redis.UniversalClient) map[string]httpx.ReadinessCheck {
	checks := map[string]httpx.ReadinessCheck{}
	if records != nil && records.DB != nil {
		checks[string(records.Driver)] = records.Ping
	}
	if redisClient != nil {
		checks["redis"] = func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		}
	}
	return checks
}
