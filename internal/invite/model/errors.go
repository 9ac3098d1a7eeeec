package model

import "errors"

var (
	// ErrInviteInvalid indicates the token matches no invite.
	ErrInviteInvalid = errors.New("invalid invite token")
	// ErrInviteUsed indicates the invite was already redeemed.
	ErrInviteUsed = errors.New("invite already used")
	// ErrInviteExpired indicates the invite's lifetime has passed.
	ErrInviteExpired = errors.New("invite expired")
	// ErrInviteNotFound indicates the invite to revoke does not exist.
	ErrInviteNotFound = errors.New("invite not found")
	// ErrEmailMismatch indicates registration with an email other than the
	// one the invite was issued for.
	ErrEmailMismatch = errors.New("email does not match invite")
	// ErrEmailExists indicates the invite email already belongs to a user.
	ErrEmailExists = errors.New("email already registered")
	// ErrInvalidEmail indicates a malformed or empty invite email.
	ErrInvalidEmail = errors.New("invalid email")
	// ErrInvalidRole indicates an unknown platform role on the invite.
	ErrInvalidRole = errors.New("invalid platform role")
)
