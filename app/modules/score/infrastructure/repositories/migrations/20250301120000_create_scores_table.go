package scoremigrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Creating scores table...")

		if _, err := db.ExecContext(ctx, `
			CREATE TABLE IF NOT EXISTS scores (
				id BIGSERIAL PRIMARY KEY,
				username TEXT,
				score BIGINT NOT NULL,
				scored_at TIMESTAMPTZ NOT NULL DEFAULT now(),
				pending BOOLEAN NOT NULL DEFAULT FALSE,
				CONSTRAINT scores_pending_username_check CHECK (
					(pending AND username IS NULL) OR (NOT pending AND username IS NOT NULL)
				)
			);
		`); err != nil {
			return fmt.Errorf("failed to create scores table: %w", err)
		}

		fmt.Println("Scores table created successfully!")
		return nil
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Dropping scores table...")

		if _, err := db.ExecContext(ctx, `DROP TABLE IF EXISTS scores;`); err != nil {
			return fmt.Errorf("failed to drop scores table: %w", err)
		}

		fmt.Println("Scores table dropped successfully!")
		return nil
	})
}
