package config

import (
	"fmt"
	"time"
)

// AuthConfig holds authentication configuration.
type AuthConfig struct {
	// JWTSecret is the HMAC secret used to sign and verify tokens.
	JWTSecret string
	// TokenTTL is how long an issued token stays valid.
	TokenTTL time.Duration
	// InviteTTLDays is the default invite lifetime when the creator does
	// not specify one.
	InviteTTLDays int
}

// LoadAuthConfigFromEnv loads authentication configuration from environment variables.
func LoadAuthConfigFromEnv() AuthConfig {
	return AuthConfig{
		JWTSecret:     GetEnv("JWT_SECRET", ""),
		TokenTTL:      GetEnvDuration("JWT_TOKEN_TTL", 24*time.Hour),
		InviteTTLDays: GetEnvInt("INVITE_TTL_DAYS", 7),
	}
}

// Validate validates authentication configuration.
func (c AuthConfig) Validate() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET must be set")
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("TokenTTL must be greater than 0")
	}
	if c.InviteTTLDays <= 0 {
		return fmt.Errorf("InviteTTLDays must be greater than 0")
	}
	return nil
}
