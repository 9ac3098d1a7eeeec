// Package database opens and manages the Postgres connection behind gorm.
package database

import (
	"context"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/promptstash/promptstash/internal/database/config"
	"github.com/promptstash/promptstash/internal/database/pool"
	"github.com/promptstash/promptstash/pkg/retry"
)

// connectTimeout bounds the whole retrying connect, not a single attempt.
const connectTimeout = 2 * time.Minute

// New connects using environment settings.
func New() (*gorm.DB, error) {
	return NewWithConfig(config.LoadConfigFromEnv())
}

// NewWithConfig connects with the given settings, retrying transient
// failures on the configured backoff schedule.
func NewWithConfig(cfg config.Config) (*gorm.DB, error) {
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	dsn := cfg.DSN()
	db, err := retry.DoValue(ctx, config.LoadRetryConfigFromEnv(), func() (*gorm.DB, error) {
		return gorm.Open(postgres.Open(dsn), &gorm.Config{})
	})
	if err != nil {
		return nil, cfg.SanitizeError(err)
	}

	if err := pool.Apply(db, pool.LoadFromEnv()); err != nil {
		return nil, fmt.Errorf("failed to setup connection pool: %w", err)
	}

	return db, nil
}

// HealthCheck pings the database. The health endpoint calls it per request.
func HealthCheck(ctx context.Context, db *gorm.DB) error {
	if db == nil {
		return fmt.Errorf("database connection is nil")
	}
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}
	return nil
}

// Close releases the connection pool.
func Close(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("failed to close database connection: %w", err)
	}
	return nil
}
