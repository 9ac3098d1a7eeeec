package model

import "errors"

var (
	// ErrTeamExists indicates that a team with the given name already exists.
	ErrTeamExists = errors.New("team already exists")
	// ErrTeamNotFound indicates that the requested team does not exist.
	ErrTeamNotFound = errors.New("team not found")
	// ErrInvalidTeamName indicates that the provided team name is invalid (e.g., empty).
	ErrInvalidTeamName = errors.New("invalid team name")
	// ErrInvalidRole indicates an unknown team role value.
	ErrInvalidRole = errors.New("invalid team role")
	// ErrAlreadyMember indicates the user is already a member of the team.
	ErrAlreadyMember = errors.New("user is already a team member")
	// ErrMembershipNotFound indicates the user has no membership in the team.
	ErrMembershipNotFound = errors.New("team membership not found")
	// ErrLastAdmin indicates the operation would leave the team without an admin.
	ErrLastAdmin = errors.New("team must retain at least one admin")
	// ErrAlreadyPinned indicates the prompt is already on the team's pin list.
	ErrAlreadyPinned = errors.New("prompt already pinned")
	// ErrPinNotFound indicates the prompt is not on the team's pin list.
	ErrPinNotFound = errors.New("pinned prompt not found")
	// ErrPromptNotFound indicates the prompt to pin does not exist or is
	// not visible to the actor.
	ErrPromptNotFound = errors.New("prompt not found")
	// ErrUserNotFound indicates the user to add does not exist.
	ErrUserNotFound = errors.New("user not found")
)
