// Package pool sizes the sql.DB connection pool under a gorm handle.
package pool

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	appConfig "github.com/promptstash/promptstash/internal/config"
)

// Config holds connection pool limits.
type Config struct {
	// MaxOpen caps open connections, in-use and idle together.
	MaxOpen int
	// MaxIdle caps connections kept around between requests.
	MaxIdle int
	// MaxLifetime retires a connection regardless of use.
	MaxLifetime time.Duration
	// MaxIdleTime retires a connection that sat unused.
	MaxIdleTime time.Duration
}

// DefaultConfig returns pool limits sized for a single API instance.
func DefaultConfig() Config {
	return Config{
		MaxOpen:     25,
		MaxIdle:     5,
		MaxLifetime: 5 * time.Minute,
		MaxIdleTime: 10 * time.Minute,
	}
}

// LoadFromEnv reads pool limits from the environment, falling back to
// DefaultConfig values.
func LoadFromEnv() Config {
	def := DefaultConfig()
	return Config{
		MaxOpen:     appConfig.GetEnvInt("DB_POOL_MAX_OPEN", def.MaxOpen),
		MaxIdle:     appConfig.GetEnvInt("DB_POOL_MAX_IDLE", def.MaxIdle),
		MaxLifetime: appConfig.GetEnvDuration("DB_POOL_MAX_LIFETIME", def.MaxLifetime),
		MaxIdleTime: appConfig.GetEnvDuration("DB_POOL_MAX_IDLE_TIME", def.MaxIdleTime),
	}
}

// Validate rejects limit combinations sql.DB would silently clamp.
func (c Config) Validate() error {
	if c.MaxOpen <= 0 {
		return fmt.Errorf("MaxOpen must be greater than 0")
	}
	if c.MaxIdle < 0 {
		return fmt.Errorf("MaxIdle must be non-negative")
	}
	if c.MaxIdle > c.MaxOpen {
		return fmt.Errorf("MaxIdle (%d) cannot exceed MaxOpen (%d)", c.MaxIdle, c.MaxOpen)
	}
	return nil
}

// Apply installs the limits on the sql.DB behind the gorm handle.
func Apply(db *gorm.DB, cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpen)
	sqlDB.SetMaxIdleConns(cfg.MaxIdle)
	sqlDB.SetConnMaxLifetime(cfg.MaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.MaxIdleTime)

	return nil
}
