// Package config loads the application settings from the environment.
package config

import "fmt"

// Config bundles every setting the server needs at startup.
type Config struct {
	// Server holds the HTTP listener settings.
	Server ServerConfig
	// Logger holds the zap settings.
	Logger LoggerConfig
	// Auth holds the token and invite settings.
	Auth AuthConfig
	// GinMode is debug, release, or test.
	GinMode string
}

// LoadFromEnv assembles the full configuration from the environment.
func LoadFromEnv() Config {
	return Config{
		Server:  LoadServerConfigFromEnv(),
		Logger:  LoadLoggerConfigFromEnv(),
		Auth:    LoadAuthConfigFromEnv(),
		GinMode: GetEnv("GIN_MODE", "release"),
	}
}

// Validate checks every section, failing on the first problem.
func (c Config) Validate() error {
	if err := c.Server.Validate(); err != nil {
		return fmt.Errorf("server config validation failed: %w", err)
	}
	if err := c.Logger.Validate(); err != nil {
		return fmt.Errorf("logger config validation failed: %w", err)
	}
	if err := c.Auth.Validate(); err != nil {
		return fmt.Errorf("auth config validation failed: %w", err)
	}

	switch c.GinMode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("invalid GIN_MODE: %s (must be: debug, release, test)", c.GinMode)
	}

	return nil
}
