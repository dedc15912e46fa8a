package models

import "errors"

// Sentinel errors for common failure conditions
var (
	ErrValidation     = errors.New("validation failed")
	ErrNotFound       = errors.New("resource not found")
	ErrConflict       = errors.New("resource already exists")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrForbidden      = errors.New("forbidden")
	ErrInternalServer = errors.New("internal server error")

	// Idea lifecycle conflicts. These are expected user-facing outcomes, not faults.
	ErrAlreadyVoted    = errors.New("user has already voted on this idea")
	ErrAlreadyApproved = errors.New("idea is approved and voting is closed")

	// Account state errors
	ErrAccountBlocked = errors.New("account is blocked")
)

// ErrNoChange is returned from a mutation callback to end the unit of work
// without writing. The store returns the current record and a nil error.
var ErrNoChange = errors.New("no change")
