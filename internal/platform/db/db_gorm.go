// Package db opens the application's gorm connection.
package db

import (
	"fmt"
	"log/slog"
	"time"

	gpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"identity_backend/internal/platform/config"
)

// connectTimeout bounds the startup retry loop. The database may still be
// coming up when the service starts.
const connectTimeout = 60 * time.Second

// Open connects to Postgres using the supplied configuration, retrying
// until the deadline. When cfg.QueryLogging is set, every statement is
// logged through the gorm logger.
func Open(cfg config.Config) (*gorm.DB, error) {
	var dsn string
	if cfg.InstanceConnectionName != "" {
		dsn = fmt.Sprintf("host=/cloudsql/%s user=%s password=%s dbname=%s",
			cfg.InstanceConnectionName, cfg.DBUser, cfg.DBPassword, cfg.DBName)
	} else {
		dsn = fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
			cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName)
	}

	gormCfg := &gorm.Config{}
	if cfg.QueryLogging {
		gormCfg.Logger = logger.Default.LogMode(logger.Info)
	}

	deadline := time.Now().Add(connectTimeout)
	for {
		db, err := gorm.Open(gpostgres.Open(dsn), gormCfg)
		if err == nil {
			return db, nil
		}
		if time.Now().After(deadline) {
			return nil, fmt.Errorf("database connect failed after %s: %w", connectTimeout, err)
		}
		slog.Warn("database connect failed, retrying", "error", err)
		time.Sleep(3 * time.Second)
	}
}
