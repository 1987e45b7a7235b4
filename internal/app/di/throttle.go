package di

import (
	"github.com/redis/go-redis/v9"

	"identity_backend/internal/platform/config"
	"identity_backend/internal/platform/throttle"
)

// NewLoginLimiter creates the login attempt limiter.
// If redis is available, counters are shared across instances.
// Otherwise, it falls back to an in-process limiter.
func NewLoginLimiter(rdb *redis.Client, cfg config.Config) throttle.Limiter {
	if rdb != nil {
		return throttle.NewRedisLimiter(rdb, "login-attempts", cfg.LoginRateLimit, cfg.LoginRateWindow)
	}
	return throttle.NewMemoryLimiter(cfg.LoginRateLimit, cfg.LoginRateWindow)
}
