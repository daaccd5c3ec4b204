package scoredb

import "errors"

// Sentinel errors for the repository layer.
// These are infrastructure-level errors that indicate database state, not business logic failures.
var (
	// ErrNotFound indicates the requested score record does not exist in the database.
	ErrNotFound = errors.New("score not found")

	// ErrInconsistentWrite indicates an INSERT reported success without producing exactly one row.
	ErrInconsistentWrite = errors.New("insert did not affect exactly one row")

	// ErrInvalidOrder indicates a FilterSpec ordering outside the supported set.
	ErrInvalidOrder = errors.New("unsupported score ordering")

	// ErrInvalidLimit indicates a negative FilterSpec limit.
	ErrInvalidLimit = errors.New("limit must not be negative")
)
