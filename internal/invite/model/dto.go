// Package model provides domain models and DTOs for the invite module.
package model

import (
	"time"

	"github.com/promptstash/promptstash/internal/access"
)

// CreateInviteRequest represents the request to issue an invite.
type CreateInviteRequest struct {
	Email         string              `json:"email" binding:"required,email"`
	Role          access.PlatformRole `json:"role"`
	ExpiresInDays int                 `json:"expires_in_days"`
}

// RegisterRequest represents the request to redeem an invite and create an
// account.
type RegisterRequest struct {
	Token    string `json:"token" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Name     string `json:"name" binding:"required"`
	Password string `json:"password" binding:"required,min=8"`
}

// ValidateResponse describes an invite to a prospective registrant.
type ValidateResponse struct {
	Email     string              `json:"email"`
	Role      access.PlatformRole `json:"role"`
	ExpiresAt time.Time           `json:"expires_at"`
}

// RegisterResponse carries the token issued for a freshly created account.
type RegisterResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	UserID    string    `json:"user_id"`
}
