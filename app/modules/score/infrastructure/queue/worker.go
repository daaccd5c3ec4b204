package scorequeue

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Black-And-White-Club/frolf-bot-shared/observability/attr"
	"github.com/riverqueue/river"
)

// Pruner is the slice of the score service the prune worker needs.
type Pruner interface {
	PrunePending(ctx context.Context, cutoff time.Time) (int64, error)
}

// PrunePendingWorker deletes pending scores that were never finalized.
type PrunePendingWorker struct {
	river.WorkerDefaults[PrunePendingJob]

	logger *slog.Logger
	pruner Pruner
	now    func() time.Time
}

// NewPrunePendingWorker creates a worker that prunes through pruner.
func NewPrunePendingWorker(logger *slog.Logger, pruner Pruner) *PrunePendingWorker {
	return &PrunePendingWorker{
		logger: logger,
		pruner: pruner,
		now:    time.Now,
	}
}

// Work runs a single prune pass.
func (w *PrunePendingWorker) Work(ctx context.Context, job *river.Job[PrunePendingJob]) error {
	if job.Args.TTL <= 0 {
		w.logger.WarnContext(ctx, "Skipping prune job without TTL", attr.Any("job_id", job.ID))
		return nil
	}

	cutoff := w.now().Add(-job.Args.TTL)
	removed, err := w.pruner.PrunePending(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("failed to prune pending scores: %w", err)
	}

	w.logger.InfoContext(ctx, "Pruned pending scores",
		attr.Any("job_id", job.ID),
		attr.Time("cutoff", cutoff),
		attr.Any("removed", removed),
	)
	return nil
}

// Timeout bounds a single prune pass.
func (w *PrunePendingWorker) Timeout(*river.Job[PrunePendingJob]) time.Duration {
	return time.Minute
}
