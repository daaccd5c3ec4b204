package scoreservice

import (
	"errors"
	"fmt"

	scoredb "github.com/Black-And-White-Club/meishu/app/modules/score/infrastructure/repositories"
)

// Domain errors for the score service.
var (
	// ErrNotFound indicates no score matches the requested id.
	ErrNotFound = scoredb.ErrNotFound

	// ErrAlreadyFinalized indicates a finalize request for a score that already has a username
	// while strict finalize is enabled.
	ErrAlreadyFinalized = errors.New("score already finalized")
)

// ValidationError reports malformed input for a single field.
type ValidationError struct {
	Field  string
	Reason string
	Err    error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// PersistenceError reports that the store could not complete an operation
// for infrastructural reasons.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence failure in %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// IsValidation reports whether err carries a ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// IsPersistence reports whether err carries a PersistenceError.
func IsPersistence(err error) bool {
	var p *PersistenceError
	return errors.As(err, &p)
}

func persistence(op string, err error) error {
	return &PersistenceError{Op: op, Err: err}
}
