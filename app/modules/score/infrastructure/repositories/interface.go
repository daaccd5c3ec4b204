package scoredb

import (
	"context"
	"time"
)

// Repository defines the contract for score persistence.
type Repository interface {
	// CreateFinalized inserts a score attributed to username and returns its id.
	CreateFinalized(ctx context.Context, username string, score int64) (int64, error)

	// CreatePending inserts an unattributed score and returns its id.
	CreatePending(ctx context.Context, score int64) (int64, error)

	// Finalize attributes the score to username whatever its current state.
	// It reports whether a row with that id exists.
	Finalize(ctx context.Context, id int64, username string) (bool, error)

	// FinalizePending attributes the score only if it is still pending.
	FinalizePending(ctx context.Context, id int64, username string) (bool, error)

	// Delete removes the score and reports whether a row was removed.
	Delete(ctx context.Context, id int64) (bool, error)

	// GetByID retrieves a score by id.
	GetByID(ctx context.Context, id int64) (*Score, error)

	// GetLatestPending retrieves the most recently created pending score.
	GetLatestPending(ctx context.Context) (*Score, error)

	// List returns the scores matching filter.
	List(ctx context.Context, filter FilterSpec) ([]Score, error)

	// DeletePendingBefore removes pending scores created before cutoff.
	DeletePendingBefore(ctx context.Context, cutoff time.Time) (int64, error)
}
