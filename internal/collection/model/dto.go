// Package model provides domain models and DTOs for the collection module.
package model

import "github.com/promptstash/promptstash/internal/access"

// CreateCollectionRequest represents the request to create a collection.
type CreateCollectionRequest struct {
	Name        string            `json:"name" binding:"required"`
	Description string            `json:"description"`
	Visibility  access.Visibility `json:"visibility"`
	TeamID      *string           `json:"team_id"`
}

// UpdateCollectionRequest represents the request to update a collection.
// Nil fields are left unchanged.
type UpdateCollectionRequest struct {
	Name        *string            `json:"name"`
	Description *string            `json:"description"`
	Visibility  *access.Visibility `json:"visibility"`
}

// AddItemRequest represents the request to add a prompt to a collection.
type AddItemRequest struct {
	PromptID string `json:"prompt_id" binding:"required"`
}

// CollectionResponse represents a collection with its ordered prompt ids.
type CollectionResponse struct {
	Collection Collection `json:"collection"`
	PromptIDs  []string   `json:"prompt_ids"`
}
