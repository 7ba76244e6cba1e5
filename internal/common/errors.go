// Package common defines sentinel errors shared across the AceMate client
// layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Transport-level errors.
	ErrUnavailable = errors.New("server unavailable")

	// Auth errors (rejected or missing credentials/token).
	ErrUnauthorized = errors.New("unauthorized")

	// Resource errors.
	ErrNotFound = errors.New("not found")

	// Catch-all for unexpected server failures.
	ErrInternal = errors.New("internal error")
)
