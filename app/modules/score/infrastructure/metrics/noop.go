package scoremetrics

import (
	"context"
	"time"
)

type noop struct{}

// NewNoop returns a ScoreMetrics that discards everything.
func NewNoop() ScoreMetrics { return noop{} }

func (noop) RecordOperationAttempt(context.Context, string)                 {}
func (noop) RecordOperationSuccess(context.Context, string)                 {}
func (noop) RecordOperationFailure(context.Context, string)                 {}
func (noop) RecordOperationDuration(context.Context, string, time.Duration) {}
func (noop) RecordPendingPruned(context.Context, int64)                     {}
