package config

import (
	"fmt"
	"net"
	"strings"
	"time"
)

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	// Host to bind. Empty binds all interfaces.
	Host string
	// Port with or without a leading colon.
	Port string
	// ReadTimeout bounds reading a whole request.
	ReadTimeout time.Duration
	// WriteTimeout bounds writing a response.
	WriteTimeout time.Duration
	// IdleTimeout bounds keep-alive waits between requests.
	IdleTimeout time.Duration
}

// LoadServerConfigFromEnv reads the listener settings from the environment.
func LoadServerConfigFromEnv() ServerConfig {
	return ServerConfig{
		Host:         GetEnv("SERVER_HOST", ""),
		Port:         GetEnv("SERVER_PORT", ":8080"),
		ReadTimeout:  GetEnvDuration("SERVER_READ_TIMEOUT", 10*time.Second),
		WriteTimeout: GetEnvDuration("SERVER_WRITE_TIMEOUT", 10*time.Second),
		IdleTimeout:  GetEnvDuration("SERVER_IDLE_TIMEOUT", 120*time.Second),
	}
}

// GetAddress builds the host:port string handed to http.Server.
func (c ServerConfig) GetAddress() string {
	port := strings.TrimPrefix(c.Port, ":")
	if c.Host == "" {
		return ":" + port
	}
	return net.JoinHostPort(c.Host, port)
}

// Validate rejects timeouts that would disable the listener's protection.
func (c ServerConfig) Validate() error {
	if strings.TrimPrefix(c.Port, ":") == "" {
		return fmt.Errorf("Port must not be empty")
	}
	for name, timeout := range map[string]time.Duration{
		"ReadTimeout":  c.ReadTimeout,
		"WriteTimeout": c.WriteTimeout,
		"IdleTimeout":  c.IdleTimeout,
	} {
		if timeout <= 0 {
			return fmt.Errorf("%s must be greater than 0", name)
		}
	}
	return nil
}
