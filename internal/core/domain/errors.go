package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors, which are wrapped
// and returned unchanged so callers can still inspect them.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates an entity already exists.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrConfigurationMissing indicates a backing directory is not configured.
	// The template store and dataset registry both report it.
	ErrConfigurationMissing = errors.New("configuration missing")

	// ErrCorrupted indicates a persisted file exists but cannot be decoded.
	ErrCorrupted = errors.New("corrupted")
)
