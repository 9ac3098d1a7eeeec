// Package model provides domain models and DTOs for the user module.
package model

import "time"

// LoginRequest represents the login request.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// TokenResponse carries an issued access token.
type TokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	User      User      `json:"user"`
}

// PinPromptRequest represents the request to pin a prompt.
type PinPromptRequest struct {
	PromptID string `json:"prompt_id" binding:"required"`
}

// ProfileResponse represents a user's profile with their pin list.
type ProfileResponse struct {
	User            User     `json:"user"`
	PinnedPromptIDs []string `json:"pinned_prompt_ids"`
}
