// Package model provides domain models and DTOs for the prompt module.
package model

import "github.com/promptstash/promptstash/internal/access"

// CreatePromptRequest represents the request to create a prompt.
type CreatePromptRequest struct {
	Title       string            `json:"title" binding:"required"`
	Body        string            `json:"body" binding:"required"`
	Description string            `json:"description"`
	Visibility  access.Visibility `json:"visibility"`
	TeamID      *string           `json:"team_id"`
}

// UpdatePromptRequest represents the request to update a prompt. Nil fields
// are left unchanged.
type UpdatePromptRequest struct {
	Title       *string            `json:"title"`
	Body        *string            `json:"body"`
	Description *string            `json:"description"`
	Visibility  *access.Visibility `json:"visibility"`
	TeamID      *string            `json:"team_id"`
	ClearTeam   bool               `json:"clear_team"`
}

// FavoriteResponse reports the favorite state after a toggle.
type FavoriteResponse struct {
	PromptID      string `json:"prompt_id"`
	Favorited     bool   `json:"favorited"`
	FavoriteCount int    `json:"favorite_count"`
}
