package service

import "errors"

var (
	// ErrInvalidAmount is returned when a grant amount is zero or negative
	ErrInvalidAmount = errors.New("xp amount must be positive")

	// ErrMissingPermission is returned when the bot lacks permission to
	// manage a reward role
	ErrMissingPermission = errors.New("missing permission to grant role")

	// ErrRoleNotFound is returned when a configured reward role no
	// longer exists in the guild
	ErrRoleNotFound = errors.New("reward role not found")
)
