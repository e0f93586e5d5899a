package bootstrap

import (
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/meridianlabs/thesisflow/config"
	"github.com/meridianlabs/thesisflow/internal/adapters/devauth"
	redisadapter "github.com/meridianlabs/thesisflow/internal/adapters/redis"
	"github.com/meridianlabs/thesisflow/internal/service"
)

// AuthConfig contains configuration for auth service.
type AuthConfig struct {
	Auth        config.AuthConfig
	RedisClient redis.UniversalClient
	Logger      *slog.Logger
}

// BuildAuthService creates the auth service backed by Redis sessions.
// Returns nil when no Redis client is configured; the router then serves
// protected routes as unauthorized.
func BuildAuthService(cfg AuthConfig) *service.AuthService {
	if cfg.RedisClient == nil {
		if cfg.Logger != nil {
			cfg.Logger.Warn("auth service disabled: redis client not configured")
		}
		return nil
	}

	sessionStore := redisadapter.NewSessionStoreWithPrefix(cfg.RedisClient, cfg.Auth.SessionPrefix)

	issuer := devauth.NewProvider(devauth.ProviderOptions{
		SessionTTL: cfg.Auth.SessionTTL,
	})

	return service.NewAuthService(service.AuthServiceOptions{
		Issuer:   issuer,
		Sessions: sessionStore,
	})
}
