package data

import "errors"

// Shared sentinel errors for data-layer repositories.
var (
	// ErrProfileNotFound is returned when no profile row exists for the key.
	ErrProfileNotFound = errors.New("profile not found")
	// ErrProfileExists is returned when an insert collides with an existing
	// profile id or email.
	ErrProfileExists = errors.New("profile already exists")
)
