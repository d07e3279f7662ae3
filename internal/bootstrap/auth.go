package bootstrap

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/applytrack/applytrack/config"
	"github.com/applytrack/applytrack/internal/adapters/devauth"
	"github.com/applytrack/applytrack/internal/adapters/oidc"
	redisadapter "github.com/applytrack/applytrack/internal/adapters/redis"
	"github.com/applytrack/applytrack/internal/ports"
	"github.com/applytrack/applytrack/internal/service"
)

// sessionKeyPrefix namespaces session keys in a shared Redis.
const sessionKeyPrefix = "applytrack:session:"

// AuthConfig contains configuration for auth service.
type AuthConfig struct {
	Auth        config.AuthConfig
	RedisClient redis.UniversalClient
	Logger      *slog.Logger
}

// BuildAuthService creates an auth service based on the configured auth mode.
// Sessions live in Redis for both modes.
func BuildAuthService(cfg AuthConfig) (*service.AuthService, error) {
	if cfg.RedisClient == nil {
		return nil, errors.New("auth requires a redis client for sessions")
	}
	sessions := redisadapter.NewSessionStoreWithPrefix(cfg.RedisClient, sessionKeyPrefix)
	return buildAuthService(cfg, sessions)
}

func buildAuthService(cfg AuthConfig, sessions ports.SessionStore) (*service.AuthService, error) {
	var (
		prov ports.AuthProvider
		err  error
	)
	switch cfg.Auth.Mode {
	case config.AuthModeMock:
		prov, err = devauth.NewProvider(devauth.Config{
			UserID:          cfg.Auth.DevAuth.UserID,
			Email:           cfg.Auth.DevAuth.Email,
			Name:            cfg.Auth.DevAuth.Name,
			SessionDuration: cfg.Auth.SessionTTL,
		})
		if err != nil {
			return nil, fmt.Errorf("create dev auth provider: %w", err)
		}
		if cfg.Logger != nil {
			cfg.Logger.Warn("dev authentication enabled", "user_id", cfg.Auth.DevAuth.UserID)
		}

	case config.AuthModeOAuth:
		oauth := cfg.Auth.OAuth
		prov, err = oidc.NewProvider(oidc.ProviderConfig{
			ClientID:     oauth.ClientID,
			ClientSecret: oauth.ClientSecret,
			RedirectURL:  oauth.RedirectURL,
			Scope:        oauth.Scope,
			DiscoveryURL: oauth.DiscoveryURL,
		})
		if err != nil {
			return nil, fmt.Errorf("create oidc provider: %w", err)
		}

	default:
		return nil, fmt.Errorf("unsupported auth mode %q", cfg.Auth.Mode)
	}

	return service.NewAuthService(service.AuthServiceOptions{
		Provider:   prov,
		Sessions:   sessions,
		SessionTTL: cfg.Auth.SessionTTL,
	}), nil
}
