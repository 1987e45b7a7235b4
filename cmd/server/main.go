package main

import (
	"context"
	"log/slog"
	"os"

	redisv9 "github.com/redis/go-redis/v9"

	"identity_backend/internal/app/bootstrap"
	"identity_backend/internal/app/di"
	"identity_backend/internal/app/migrations"
	"identity_backend/internal/app/router"
	"identity_backend/internal/feature/identity/adapters"
	idhandler "identity_backend/internal/feature/identity/transport/handler"
	"identity_backend/internal/feature/identity/usecase"
	"identity_backend/internal/platform/config"
	infradb "identity_backend/internal/platform/db"
	jwtmw "identity_backend/internal/platform/jwt"
	"identity_backend/internal/platform/migrate"
	infraredis "identity_backend/internal/platform/redis"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	db, err := infradb.Open(cfg)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}

	// A partially applied changeset is fatal: the service must not start
	// against an unknown schema shape.
	if cfg.RunMigrations {
		runner, err := migrate.NewRunner(db, migrations.All())
		if err != nil {
			slog.Error("invalid changeset declaration", "error", err)
			os.Exit(1)
		}
		n, err := runner.Up(context.Background())
		if err != nil {
			slog.Error("schema migration failed", "error", err)
			os.Exit(1)
		}
		slog.Info("schema changesets applied", "count", n)
	}

	// Redis backs the login throttle; the service degrades to an
	// in-process limiter without it.
	var rdb *redisv9.Client
	if cfg.RedisHost != "" {
		if tmp, err := infraredis.NewClient(cfg); err != nil {
			slog.Warn("redis unavailable, falling back to in-process login limiter")
		} else {
			rdb = tmp
			defer func() {
				if err := rdb.Close(); err != nil {
					slog.Error("failed to close redis client", "error", err)
				}
			}()
		}
	}
	limiter := di.NewLoginLimiter(rdb, cfg)

	generator, err := jwtmw.NewGenerator(cfg.JWTSecret, cfg.JWTAlgorithm, cfg.TokenTTL)
	if err != nil {
		slog.Error("failed to configure token generator", "error", err)
		os.Exit(1)
	}

	// Store
	userStore := adapters.NewUserGorm(db)
	orgStore := adapters.NewOrganizationGorm(db)

	if cfg.DefaultOrgName != "" && cfg.DefaultOrgSlug != "" {
		if err := bootstrap.EnsureDefaultOrganization(context.Background(), orgStore, cfg.DefaultOrgName, cfg.DefaultOrgSlug); err != nil {
			slog.Error("bootstrap failed", "error", err)
			os.Exit(1)
		}
	}

	// Usecase
	accountUC := usecase.NewAccountUsecase(userStore)
	authUC := usecase.NewAuthUsecase(accountUC, userStore, generator, cfg.ResetTokenTTL)

	// Handler
	authH := idhandler.NewAuthHandler(authUC)
	accountH := idhandler.NewAccountHandler(accountUC)

	r := router.NewRouter(authH, accountH, generator, limiter)

	slog.Info("listening", "addr", cfg.ListenAddr)
	if err := r.Run(cfg.ListenAddr); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
