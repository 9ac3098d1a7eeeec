package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearServerEnv blanks the listener variables so defaults apply. GetEnv
// treats an empty value as unset, and t.Setenv restores the originals.
func clearServerEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"SERVER_HOST",
		"SERVER_PORT",
		"SERVER_READ_TIMEOUT",
		"SERVER_WRITE_TIMEOUT",
		"SERVER_IDLE_TIMEOUT",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadServerConfigFromEnv(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		clearServerEnv(t)

		cfg := LoadServerConfigFromEnv()

		assert.Empty(t, cfg.Host)
		assert.Equal(t, ":8080", cfg.Port)
		assert.Equal(t, 10*time.Second, cfg.ReadTimeout)
		assert.Equal(t, 10*time.Second, cfg.WriteTimeout)
		assert.Equal(t, 120*time.Second, cfg.IdleTimeout)
	})

	t.Run("environment overrides", func(t *testing.T) {
		clearServerEnv(t)
		t.Setenv("SERVER_HOST", "10.1.2.3")
		t.Setenv("SERVER_PORT", "9000")
		t.Setenv("SERVER_READ_TIMEOUT", "5s")
		t.Setenv("SERVER_IDLE_TIMEOUT", "1m")

		cfg := LoadServerConfigFromEnv()

		assert.Equal(t, "10.1.2.3", cfg.Host)
		assert.Equal(t, "9000", cfg.Port)
		assert.Equal(t, 5*time.Second, cfg.ReadTimeout)
		assert.Equal(t, 10*time.Second, cfg.WriteTimeout)
		assert.Equal(t, time.Minute, cfg.IdleTimeout)
	})
}

func TestServerConfig_GetAddress(t *testing.T) {
	tests := []struct {
		name string
		host string
		port string
		want string
	}{
		{"port only", "", ":8080", ":8080"},
		{"port without colon", "", "8080", ":8080"},
		{"host and port", "127.0.0.1", "9000", "127.0.0.1:9000"},
		{"host and colon port", "127.0.0.1", ":9000", "127.0.0.1:9000"},
		{"ipv6 host", "::1", "8080", "[::1]:8080"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := ServerConfig{Host: tt.host, Port: tt.port}
			assert.Equal(t, tt.want, cfg.GetAddress())
		})
	}
}

func TestServerConfig_Validate(t *testing.T) {
	valid := ServerConfig{
		Port:         ":8080",
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  time.Minute,
	}

	t.Run("valid settings pass", func(t *testing.T) {
		require.NoError(t, valid.Validate())
	})

	t.Run("empty port rejected", func(t *testing.T) {
		cfg := valid
		cfg.Port = ":"
		assert.Error(t, cfg.Validate())
	})

	t.Run("zero timeouts rejected", func(t *testing.T) {
		for _, mutate := range []func(*ServerConfig){
			func(c *ServerConfig) { c.ReadTimeout = 0 },
			func(c *ServerConfig) { c.WriteTimeout = -time.Second },
			func(c *ServerConfig) { c.IdleTimeout = 0 },
		} {
			cfg := valid
			mutate(&cfg)
			assert.Error(t, cfg.Validate())
		}
	})
}
