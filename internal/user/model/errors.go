package model

import "errors"

var (
	// ErrUserNotFound indicates that the requested user does not exist.
	ErrUserNotFound = errors.New("user not found")
	// ErrEmailExists indicates a registration with an email already in use.
	ErrEmailExists = errors.New("email already registered")
	// ErrInvalidCredentials indicates a failed login attempt.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrPinLimitReached indicates the user pin list is full.
	ErrPinLimitReached = errors.New("pin limit reached")
	// ErrAlreadyPinned indicates the prompt is already on the pin list.
	ErrAlreadyPinned = errors.New("prompt already pinned")
	// ErrPinNotFound indicates the prompt is not on the pin list.
	ErrPinNotFound = errors.New("pinned prompt not found")
	// ErrPromptNotFound indicates the prompt to pin does not exist or is
	// not visible to the actor.
	ErrPromptNotFound = errors.New("prompt not found")
)
