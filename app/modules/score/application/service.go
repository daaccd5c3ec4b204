package scoreservice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/Black-And-White-Club/frolf-bot-shared/observability/attr"
	"github.com/Black-And-White-Club/frolf-bot-shared/utils/results"
	scoremetrics "github.com/Black-And-White-Club/meishu/app/modules/score/infrastructure/metrics"
	scoredb "github.com/Black-And-White-Club/meishu/app/modules/score/infrastructure/repositories"
	"github.com/Black-And-White-Club/meishu/app/shared"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Config holds score policy settings.
type Config struct {
	// StrictFinalize rejects finalize requests for scores that are no longer pending.
	StrictFinalize bool
}

// ScoreService implements the Service interface.
type ScoreService struct {
	repo    scoredb.Repository
	logger  *slog.Logger
	metrics scoremetrics.ScoreMetrics
	tracer  trace.Tracer
	config  Config
}

// NewScoreService creates a new ScoreService.
func NewScoreService(
	repo scoredb.Repository,
	logger *slog.Logger,
	metrics scoremetrics.ScoreMetrics,
	tracer trace.Tracer,
	config Config,
) *ScoreService {
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = scoremetrics.NewNoop()
	}
	return &ScoreService{
		repo:    repo,
		logger:  logger,
		metrics: metrics,
		tracer:  tracer,
		config:  config,
	}
}

// SubmitScore records a finalized or pending score depending on username.
func (s *ScoreService) SubmitScore(ctx context.Context, username *string, score int64) (int64, error) {
	name := ""
	if username != nil {
		name = strings.TrimSpace(*username)
	}

	result, err := withTelemetry(s, ctx, "SubmitScore", name, func(ctx context.Context) (results.OperationResult[int64, error], error) {
		if name == "" {
			id, err := s.repo.CreatePending(ctx, score)
			if err != nil {
				return results.OperationResult[int64, error]{}, persistence("CreatePending", err)
			}
			return results.SuccessResult[int64, error](id), nil
		}

		id, err := s.repo.CreateFinalized(ctx, name, score)
		if err != nil {
			return results.OperationResult[int64, error]{}, persistence("CreateFinalized", err)
		}
		return results.SuccessResult[int64, error](id), nil
	})
	return unwrap(result, err)
}

// FinalizeScore attributes a score to username.
func (s *ScoreService) FinalizeScore(ctx context.Context, id int64, username string) error {
	name := strings.TrimSpace(username)
	if name == "" {
		return &ValidationError{Field: "username", Reason: "must not be empty"}
	}

	result, err := withTelemetry(s, ctx, "FinalizeScore", idString(id), func(ctx context.Context) (results.OperationResult[int64, error], error) {
		if !s.config.StrictFinalize {
			ok, err := s.repo.Finalize(ctx, id, name)
			if err != nil {
				return results.OperationResult[int64, error]{}, persistence("Finalize", err)
			}
			if !ok {
				return results.FailureResult[int64, error](ErrNotFound), nil
			}
			return results.SuccessResult[int64, error](id), nil
		}
		return s.finalizePendingLogic(ctx, id, name)
	})
	_, err = unwrap(result, err)
	return err
}

// finalizePendingLogic finalizes only pending scores and tells a missing id
// apart from one that was already finalized.
func (s *ScoreService) finalizePendingLogic(ctx context.Context, id int64, name string) (results.OperationResult[int64, error], error) {
	ok, err := s.repo.FinalizePending(ctx, id, name)
	if err != nil {
		return results.OperationResult[int64, error]{}, persistence("FinalizePending", err)
	}
	if ok {
		return results.SuccessResult[int64, error](id), nil
	}

	if _, err := s.repo.GetByID(ctx, id); err != nil {
		if errors.Is(err, scoredb.ErrNotFound) {
			return results.FailureResult[int64, error](ErrNotFound), nil
		}
		return results.OperationResult[int64, error]{}, persistence("GetByID", err)
	}
	return results.FailureResult[int64, error](&ValidationError{
		Field:  "id",
		Reason: "score is not pending",
		Err:    ErrAlreadyFinalized,
	}), nil
}

// DeleteScore removes a score by id.
func (s *ScoreService) DeleteScore(ctx context.Context, id int64) error {
	result, err := withTelemetry(s, ctx, "DeleteScore", idString(id), func(ctx context.Context) (results.OperationResult[int64, error], error) {
		ok, err := s.repo.Delete(ctx, id)
		if err != nil {
			return results.OperationResult[int64, error]{}, persistence("Delete", err)
		}
		if !ok {
			return results.FailureResult[int64, error](ErrNotFound), nil
		}
		return results.SuccessResult[int64, error](id), nil
	})
	_, err = unwrap(result, err)
	return err
}

// GetScore retrieves a score by id.
func (s *ScoreService) GetScore(ctx context.Context, id int64) (*scoredb.Score, error) {
	result, err := withTelemetry(s, ctx, "GetScore", idString(id), func(ctx context.Context) (results.OperationResult[*scoredb.Score, error], error) {
		return lookup("GetByID", func() (*scoredb.Score, error) { return s.repo.GetByID(ctx, id) })
	})
	return unwrap(result, err)
}

// GetLatestPending retrieves the most recent pending score.
func (s *ScoreService) GetLatestPending(ctx context.Context) (*scoredb.Score, error) {
	result, err := withTelemetry(s, ctx, "GetLatestPending", "", func(ctx context.Context) (results.OperationResult[*scoredb.Score, error], error) {
		return lookup("GetLatestPending", func() (*scoredb.Score, error) { return s.repo.GetLatestPending(ctx) })
	})
	return unwrap(result, err)
}

// ListScores returns the scores matching filter.
func (s *ScoreService) ListScores(ctx context.Context, filter scoredb.FilterSpec) ([]scoredb.Score, error) {
	result, err := withTelemetry(s, ctx, "ListScores", string(filter.OrderBy), func(ctx context.Context) (results.OperationResult[[]scoredb.Score, error], error) {
		return s.listLogic(ctx, filter)
	})
	return unwrap(result, err)
}

// Leaderboard returns finalized scores ordered by score descending.
func (s *ScoreService) Leaderboard(ctx context.Context, limit int) ([]scoredb.Score, error) {
	return s.ListScores(ctx, leaderboardFilter(limit))
}

// PrunePending deletes pending scores created before cutoff.
func (s *ScoreService) PrunePending(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := withTelemetry(s, ctx, "PrunePending", cutoff.UTC().Format(time.RFC3339), func(ctx context.Context) (results.OperationResult[int64, error], error) {
		n, err := s.repo.DeletePendingBefore(ctx, cutoff)
		if err != nil {
			return results.OperationResult[int64, error]{}, persistence("DeletePendingBefore", err)
		}
		s.metrics.RecordPendingPruned(ctx, n)
		return results.SuccessResult[int64, error](n), nil
	})
	return unwrap(result, err)
}

func (s *ScoreService) listLogic(ctx context.Context, filter scoredb.FilterSpec) (results.OperationResult[[]scoredb.Score, error], error) {
	scores, err := s.repo.List(ctx, filter)
	if err != nil {
		switch {
		case errors.Is(err, scoredb.ErrInvalidOrder):
			return results.FailureResult[[]scoredb.Score, error](&ValidationError{Field: "order", Reason: err.Error(), Err: err}), nil
		case errors.Is(err, scoredb.ErrInvalidLimit):
			return results.FailureResult[[]scoredb.Score, error](&ValidationError{Field: "limit", Reason: err.Error(), Err: err}), nil
		}
		return results.OperationResult[[]scoredb.Score, error]{}, persistence("List", err)
	}
	return results.SuccessResult[[]scoredb.Score, error](scores), nil
}

func leaderboardFilter(limit int) scoredb.FilterSpec {
	pending := false
	return scoredb.FilterSpec{
		Pending: &pending,
		OrderBy: scoredb.OrderByScoreDesc,
		Limit:   limit,
	}
}

// lookup maps a point lookup onto a result, treating ErrNotFound as a domain failure.
func lookup(op string, fn func() (*scoredb.Score, error)) (results.OperationResult[*scoredb.Score, error], error) {
	score, err := fn()
	if err != nil {
		if errors.Is(err, scoredb.ErrNotFound) {
			return results.FailureResult[*scoredb.Score, error](ErrNotFound), nil
		}
		return results.OperationResult[*scoredb.Score, error]{}, persistence(op, err)
	}
	return results.SuccessResult[*scoredb.Score, error](score), nil
}

func idString(id int64) string {
	return strconv.FormatInt(id, 10)
}

// -----------------------------------------------------------------------------
// Generic Helpers (Defined as functions because methods cannot have type params)
// -----------------------------------------------------------------------------

// operationFunc is the generic signature for service operation functions.
type operationFunc[S any] func(ctx context.Context) (results.OperationResult[S, error], error)

// withTelemetry wraps a service operation with tracing, metrics, and panic recovery.
func withTelemetry[S any](
	s *ScoreService,
	ctx context.Context,
	operationName string,
	identifier string,
	op operationFunc[S],
) (result results.OperationResult[S, error], err error) {
	var span trace.Span
	if s.tracer != nil {
		ctx, span = s.tracer.Start(ctx, "ScoreService."+operationName, trace.WithAttributes(
			attribute.String("operation", operationName),
			attribute.String("identifier", identifier),
		))
	} else {
		span = trace.SpanFromContext(ctx)
	}
	defer span.End()

	s.metrics.RecordOperationAttempt(ctx, operationName)

	startTime := time.Now()
	defer func() {
		s.metrics.RecordOperationDuration(ctx, operationName, time.Since(startTime))
	}()

	s.logger.DebugContext(ctx, "Operation triggered",
		shared.CorrelationAttr(ctx),
		attr.String("operation", operationName),
		attr.String("identifier", identifier),
	)

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in %s: %v", operationName, r)
			s.logger.ErrorContext(ctx, "Critical panic recovered",
				shared.CorrelationAttr(ctx),
				attr.String("operation", operationName),
				attr.String("identifier", identifier),
				attr.Error(err),
			)
			s.metrics.RecordOperationFailure(ctx, operationName)
			span.RecordError(err)
			span.SetStatus(codes.Error, "panic")
			result = results.OperationResult[S, error]{}
		}
	}()

	result, err = op(ctx)

	if err != nil {
		wrappedErr := fmt.Errorf("%s: %w", operationName, err)
		s.logger.ErrorContext(ctx, "Operation failed with error",
			shared.CorrelationAttr(ctx),
			attr.String("operation", operationName),
			attr.String("identifier", identifier),
			attr.Error(wrappedErr),
		)
		s.metrics.RecordOperationFailure(ctx, operationName)
		span.RecordError(wrappedErr)
		span.SetStatus(codes.Error, wrappedErr.Error())
		return result, wrappedErr
	}

	if result.IsFailure() {
		s.logger.WarnContext(ctx, "Operation returned failure result",
			shared.CorrelationAttr(ctx),
			attr.String("operation", operationName),
			attr.String("identifier", identifier),
			attr.Any("failure", (*result.Failure).Error()),
		)
	} else {
		s.logger.InfoContext(ctx, "Operation completed successfully",
			shared.CorrelationAttr(ctx),
			attr.String("operation", operationName),
			attr.String("identifier", identifier),
		)
	}

	s.metrics.RecordOperationSuccess(ctx, operationName)
	return result, nil
}

// unwrap flattens an operation result into the (value, error) shape returned by Service.
func unwrap[S any](result results.OperationResult[S, error], err error) (S, error) {
	var zero S
	if err != nil {
		return zero, err
	}
	if result.IsFailure() {
		return zero, *result.Failure
	}
	if result.Success == nil {
		return zero, nil
	}
	return *result.Success, nil
}
