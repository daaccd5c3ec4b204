package scoremigrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Adding indices for scores module...")

		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			if _, err := tx.ExecContext(ctx, `
				CREATE INDEX IF NOT EXISTS idx_scores_pending_latest ON scores(pending, scored_at DESC, id DESC);
				CREATE INDEX IF NOT EXISTS idx_scores_username ON scores(username);
				CREATE INDEX IF NOT EXISTS idx_scores_score ON scores(score DESC);
			`); err != nil {
				return fmt.Errorf("failed to add indices to scores: %w", err)
			}

			return nil
		})
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Rolling back indices for scores module...")

		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			if _, err := tx.ExecContext(ctx, `
				DROP INDEX IF EXISTS idx_scores_pending_latest;
				DROP INDEX IF EXISTS idx_scores_username;
				DROP INDEX IF EXISTS idx_scores_score;
			`); err != nil {
				return fmt.Errorf("failed to drop indices from scores: %w", err)
			}

			return nil
		})
	})
}
