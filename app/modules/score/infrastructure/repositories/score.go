package scoredb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/uptrace/bun"
)

// Impl implements the Repository interface using Bun ORM.
// Every method runs as a single statement on the shared pool.
type Impl struct {
	db *bun.DB
}

// NewRepository creates a new score repository.
func NewRepository(db *bun.DB) Repository {
	return &Impl{db: db}
}

// CreateFinalized inserts an attributed score.
func (r *Impl) CreateFinalized(ctx context.Context, username string, score int64) (int64, error) {
	row := &Score{Score: score, Username: &username, Pending: false}
	if err := r.insert(ctx, row); err != nil {
		return 0, fmt.Errorf("failed to create score for %q: %w", username, err)
	}
	return row.ID, nil
}

// CreatePending inserts an unattributed score.
func (r *Impl) CreatePending(ctx context.Context, score int64) (int64, error) {
	row := &Score{Score: score, Pending: true}
	if err := r.insert(ctx, row); err != nil {
		return 0, fmt.Errorf("failed to create pending score: %w", err)
	}
	return row.ID, nil
}

func (r *Impl) insert(ctx context.Context, row *Score) error {
	result, err := r.db.NewInsert().
		Model(row).
		Returning("id, scored_at").
		Exec(ctx)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows != 1 || row.ID == 0 {
		return fmt.Errorf("%w: %d rows", ErrInconsistentWrite, rows)
	}
	return nil
}

// Finalize sets the username and clears pending regardless of the current state.
func (r *Impl) Finalize(ctx context.Context, id int64, username string) (bool, error) {
	result, err := r.db.NewUpdate().
		Model((*Score)(nil)).
		Set("username = ?", username).
		Set("pending = FALSE").
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to finalize score %d: %w", id, err)
	}
	return singleRow(result)
}

// FinalizePending is Finalize restricted to scores that are still pending.
func (r *Impl) FinalizePending(ctx context.Context, id int64, username string) (bool, error) {
	result, err := r.db.NewUpdate().
		Model((*Score)(nil)).
		Set("username = ?", username).
		Set("pending = FALSE").
		Where("id = ?", id).
		Where("pending = TRUE").
		Exec(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to finalize pending score %d: %w", id, err)
	}
	return singleRow(result)
}

// Delete removes a score by id.
func (r *Impl) Delete(ctx context.Context, id int64) (bool, error) {
	result, err := r.db.NewDelete().
		Model((*Score)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to delete score %d: %w", id, err)
	}
	return singleRow(result)
}

// GetByID retrieves a score by id.
func (r *Impl) GetByID(ctx context.Context, id int64) (*Score, error) {
	score := new(Score)
	err := r.db.NewSelect().
		Model(score).
		Where("id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get score %d: %w", id, err)
	}
	return score, nil
}

// GetLatestPending retrieves the newest pending score; ties on scored_at go to the highest id.
func (r *Impl) GetLatestPending(ctx context.Context) (*Score, error) {
	score := new(Score)
	err := r.db.NewSelect().
		Model(score).
		Where("pending = TRUE").
		OrderExpr("scored_at DESC, id DESC").
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get latest pending score: %w", err)
	}
	return score, nil
}

// List executes the query produced by BuildListQuery.
// The statement bypasses bun's formatter so the driver sees the $n placeholders
// and substitutes the escaped arguments itself.
func (r *Impl) List(ctx context.Context, filter FilterSpec) ([]Score, error) {
	query, args, err := BuildListQuery(filter)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list scores: %w", err)
	}
	defer rows.Close()

	scores := make([]Score, 0)
	if err := r.db.ScanRows(ctx, rows, &scores); err != nil {
		return nil, fmt.Errorf("failed to scan scores: %w", err)
	}
	return scores, nil
}

// DeletePendingBefore removes pending scores older than cutoff and returns how many were removed.
func (r *Impl) DeletePendingBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := r.db.NewDelete().
		Model((*Score)(nil)).
		Where("pending = TRUE").
		Where("scored_at < ?", cutoff.UTC()).
		Exec(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to delete pending scores before %s: %w", cutoff.Format(time.RFC3339), err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rows, nil
}

func singleRow(result sql.Result) (bool, error) {
	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rows == 1, nil
}
