// Package config loads runtime configuration from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds every externally supplied setting. It is loaded once in
// main and passed down explicitly; no component reads the environment on
// its own.
type Config struct {
	ListenAddr string `envconfig:"LISTEN_ADDR" default:":8080"`

	// Database connection parameters.
	DBHost     string `envconfig:"DB_HOST" default:"localhost"`
	DBPort     string `envconfig:"DB_PORT" default:"5432"`
	DBUser     string `envconfig:"DB_USER" required:"true"`
	DBPassword string `envconfig:"DB_PASSWORD" required:"true"`
	DBName     string `envconfig:"DB_NAME" required:"true"`
	// InstanceConnectionName switches the connection to a Cloud SQL unix
	// socket when set.
	InstanceConnectionName string `envconfig:"INSTANCE_CONNECTION_NAME"`
	// QueryLogging enables verbose statement logging on the gorm logger.
	QueryLogging bool `envconfig:"DB_QUERY_LOGGING" default:"false"`
	// RunMigrations applies pending schema changesets at startup.
	RunMigrations bool `envconfig:"RUN_MIGRATIONS" default:"false"`

	// Session token settings.
	JWTSecret    string        `envconfig:"JWT_SECRET" required:"true"`
	JWTAlgorithm string        `envconfig:"JWT_ALGORITHM" default:"HS256"`
	TokenTTL     time.Duration `envconfig:"TOKEN_TTL" default:"24h"`

	// ResetTokenTTL bounds the password reset token validity window.
	ResetTokenTTL time.Duration `envconfig:"RESET_TOKEN_TTL" default:"1h"`

	// Redis backs the login throttle when reachable.
	RedisHost     string `envconfig:"REDIS_HOST" default:""`
	RedisPort     string `envconfig:"REDIS_PORT" default:"6379"`
	RedisPassword string `envconfig:"REDIS_PASSWORD" default:""`

	// Default organization seeded at startup when both values are set.
	DefaultOrgName string `envconfig:"DEFAULT_ORG_NAME" default:""`
	DefaultOrgSlug string `envconfig:"DEFAULT_ORG_SLUG" default:""`

	// Login throttle budget per client IP and window.
	LoginRateLimit  int           `envconfig:"LOGIN_RATE_LIMIT" default:"10"`
	LoginRateWindow time.Duration `envconfig:"LOGIN_RATE_WINDOW" default:"1m"`
}

// Load reads the configuration from environment variables.
func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}
