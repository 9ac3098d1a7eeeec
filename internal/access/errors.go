package access

import "errors"

var (
	// ErrForbidden indicates the actor lacks permission for the operation.
	ErrForbidden = errors.New("forbidden")
	// ErrInvalidVisibility indicates an unknown visibility value.
	ErrInvalidVisibility = errors.New("invalid visibility")
	// ErrPrivateTeamResource indicates a team-scoped resource with PRIVATE
	// visibility, which is a validation error rather than a permission error.
	ErrPrivateTeamResource = errors.New("team resource cannot be private")
)
