// Package model provides domain models and DTOs for the team module.
package model

import "github.com/promptstash/promptstash/internal/access"

// CreateTeamRequest represents the request to create a team.
// The creator becomes the team's first admin.
type CreateTeamRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

// AddMemberRequest represents the request to add a member to a team.
type AddMemberRequest struct {
	UserID string          `json:"user_id" binding:"required"`
	Role   access.TeamRole `json:"role" binding:"required"`
}

// ChangeRoleRequest represents the request to change a member's role.
type ChangeRoleRequest struct {
	Role access.TeamRole `json:"role" binding:"required"`
}

// PinPromptRequest represents the request to pin a prompt to a team.
type PinPromptRequest struct {
	PromptID string `json:"prompt_id" binding:"required"`
}

// MemberResponse represents one team member in API responses.
type MemberResponse struct {
	UserID string          `json:"user_id"`
	Role   access.TeamRole `json:"role"`
}

// TeamResponse represents a team with its members and pinned prompts.
type TeamResponse struct {
	Team            Team             `json:"team"`
	Members         []MemberResponse `json:"members"`
	PinnedPromptIDs []string         `json:"pinned_prompt_ids"`
}
