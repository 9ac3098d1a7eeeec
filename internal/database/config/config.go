// Package config loads the Postgres connection settings and the retry
// schedule used while connecting.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	appConfig "github.com/promptstash/promptstash/internal/config"
	"github.com/promptstash/promptstash/pkg/retry"
)

// Config holds the Postgres connection settings.
type Config struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
	TimeZone string
}

// LoadConfigFromEnv reads connection settings from the environment.
func LoadConfigFromEnv() Config {
	return Config{
		Host:     appConfig.GetEnv("DB_HOST", "localhost"),
		Port:     appConfig.GetEnv("DB_PORT", "5432"),
		User:     appConfig.GetEnv("DB_USER", "postgres"),
		Password: appConfig.GetEnv("DB_PASSWORD", "postgres"),
		DBName:   appConfig.GetEnv("DB_NAME", "promptstash"),
		SSLMode:  appConfig.GetEnv("DB_SSLMODE", "disable"),
		TimeZone: appConfig.GetEnv("DB_TIMEZONE", "UTC"),
	}
}

// DSN builds the keyword/value connection string for the postgres driver.
func (c Config) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s",
		c.Host, c.User, c.Password, c.DBName, c.Port, c.SSLMode, c.TimeZone)
}

func (c Config) redactedDSN() string {
	return fmt.Sprintf("host=%s user=%s password=*** dbname=%s port=%s sslmode=%s TimeZone=%s",
		c.Host, c.User, c.DBName, c.Port, c.SSLMode, c.TimeZone)
}

// SanitizeError masks the password anywhere it leaked into a connection
// error. Driver errors tend to echo the full DSN.
func (c Config) SanitizeError(err error) error {
	if err == nil {
		return nil
	}
	msg := strings.ReplaceAll(err.Error(), c.DSN(), c.redactedDSN())
	if c.Password != "" {
		msg = strings.ReplaceAll(msg, c.Password, "***")
	}
	return fmt.Errorf("failed to connect to database: %s", msg)
}

// LoadRetryConfigFromEnv reads the connect retry schedule from the
// environment, starting from the Postgres defaults.
func LoadRetryConfigFromEnv() retry.Config {
	cfg := retry.PostgresConfig()
	cfg.Attempts = appConfig.GetEnvInt("DB_RETRY_ATTEMPTS", cfg.Attempts)
	cfg.BaseDelay = appConfig.GetEnvDuration("DB_RETRY_BASE_DELAY", cfg.BaseDelay)
	cfg.MaxDelay = appConfig.GetEnvDuration("DB_RETRY_MAX_DELAY", cfg.MaxDelay)
	cfg.Factor = getEnvFloat("DB_RETRY_FACTOR", cfg.Factor)
	return cfg
}

// getEnvFloat reads a float variable with a fallback. The shared env helpers
// have no float variant, this is the only caller.
func getEnvFloat(key string, defaultValue float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	floatValue, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return defaultValue
	}
	return floatValue
}
