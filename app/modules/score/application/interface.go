package scoreservice

import (
	"context"
	"time"

	scoredb "github.com/Black-And-White-Club/meishu/app/modules/score/infrastructure/repositories"
)

// Service defines the contract for score operations used by transport.
type Service interface {
	// SubmitScore records a finalized score when username is set and non-blank,
	// otherwise a pending one. It returns the new id.
	SubmitScore(ctx context.Context, username *string, score int64) (int64, error)

	// FinalizeScore attaches username to the score.
	FinalizeScore(ctx context.Context, id int64, username string) error

	// DeleteScore permanently removes the score.
	DeleteScore(ctx context.Context, id int64) error

	GetScore(ctx context.Context, id int64) (*scoredb.Score, error)
	GetLatestPending(ctx context.Context) (*scoredb.Score, error)
	ListScores(ctx context.Context, filter scoredb.FilterSpec) ([]scoredb.Score, error)

	// Leaderboard returns finalized scores, highest first.
	Leaderboard(ctx context.Context, limit int) ([]scoredb.Score, error)

	// ExportScores renders the filtered list as an XLSX workbook.
	ExportScores(ctx context.Context, filter scoredb.FilterSpec) ([]byte, error)

	// LeaderboardChart renders the leaderboard as a PNG bar chart.
	LeaderboardChart(ctx context.Context, limit int) ([]byte, error)

	// PrunePending deletes pending scores created before cutoff.
	PrunePending(ctx context.Context, cutoff time.Time) (int64, error)
}
