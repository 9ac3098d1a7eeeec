package model

import "errors"

var (
	// ErrPromptNotFound indicates the prompt does not exist or is not
	// visible to the actor. Direct fetches do not distinguish the two.
	ErrPromptNotFound = errors.New("prompt not found")
	// ErrInvalidTitle indicates an empty or oversized title.
	ErrInvalidTitle = errors.New("invalid prompt title")
	// ErrNotTeamMember indicates the actor tried to attach a prompt to a
	// team they do not belong to.
	ErrNotTeamMember = errors.New("actor is not a member of the target team")
)
