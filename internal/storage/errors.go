// Package storage defines the result registry used by the HTTP service.
package storage

import "errors"

// Storage errors
var (
	// ErrNotFound is returned when a requested run does not exist.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateKey is returned when a run ID is inserted twice.
	// Completed runs are never replaced.
	ErrDuplicateKey = errors.New("duplicate key: run already stored")

	// ErrInvalidInput is returned when input validation fails.
	ErrInvalidInput = errors.New("invalid input")
)
