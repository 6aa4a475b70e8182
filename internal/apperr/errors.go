// Package apperr defines the sentinel errors shared across the service and
// repository layers. Callers should use errors.Is to match these values.
package apperr

import "errors"

var (
	// Credential / access errors (recoverable, user retries or is refused).
	ErrAuthentication = errors.New("invalid credentials")
	ErrAuthorization  = errors.New("insufficient role")
	ErrDuplicateUser  = errors.New("username already registered")

	// Crypto errors. Integrity failures are fatal for the record involved
	// but must never crash the process.
	ErrIntegrity = errors.New("integrity check failed")

	// Storage-level errors (I/O, lock contention). Transient conditions are
	// retried once before this is surfaced.
	ErrStorage = errors.New("storage failure")

	// Provider errors. Surfaced only when both providers have failed.
	ErrProvider = errors.New("provider failure")

	// Lookup / input errors.
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("validation error")
)
