package model

import "errors"

var (
	// ErrCollectionNotFound indicates the collection does not exist or is
	// not visible to the actor.
	ErrCollectionNotFound = errors.New("collection not found")
	// ErrInvalidName indicates an empty or oversized collection name.
	ErrInvalidName = errors.New("invalid collection name")
	// ErrTeamRequired indicates TEAM visibility without a team reference.
	ErrTeamRequired = errors.New("team collection requires a team")
	// ErrNotTeamMember indicates the actor tried to attach a collection to
	// a team they do not belong to.
	ErrNotTeamMember = errors.New("actor is not a member of the target team")
	// ErrDuplicateEntry indicates the prompt is already in the collection.
	ErrDuplicateEntry = errors.New("prompt already in collection")
	// ErrEntryNotFound indicates the prompt is not in the collection.
	ErrEntryNotFound = errors.New("collection entry not found")
	// ErrPromptNotFound indicates the prompt to add does not exist or is
	// not visible to the actor.
	ErrPromptNotFound = errors.New("prompt not found")
)
