package scorequeue

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Black-And-White-Club/frolf-bot-shared/observability/attr"
	scoremetrics "github.com/Black-And-White-Club/meishu/app/modules/score/infrastructure/metrics"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/riverqueue/river"
	"github.com/riverqueue/river/riverdriver/riverpgxv5"
	"github.com/riverqueue/river/rivermigrate"
)

// Config controls pending expiry scheduling.
type Config struct {
	PendingTTL    time.Duration
	PruneInterval time.Duration
	MaxWorkers    int
}

// QueueService defines the lifecycle of the background job runner.
type QueueService interface {
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}

// Ensure Service implements QueueService
var _ QueueService = (*Service)(nil)

// Service runs periodic score maintenance jobs on River.
type Service struct {
	client  *river.Client[pgx.Tx]
	pool    *pgxpool.Pool
	logger  *slog.Logger
	metrics scoremetrics.ScoreMetrics
}

// NewService connects to dsn, applies River's schema migrations and builds a
// client with the prune job scheduled every cfg.PruneInterval.
func NewService(ctx context.Context, dsn string, logger *slog.Logger, pruner Pruner, metrics scoremetrics.ScoreMetrics, cfg Config) (*Service, error) {
	ctxLogger := logger.With(
		attr.String("operation", "new_score_queue_service"),
		attr.String("component", "river_queue"),
	)
	if metrics == nil {
		metrics = scoremetrics.NewNoop()
	}
	if cfg.PendingTTL <= 0 {
		return nil, fmt.Errorf("pending TTL must be positive, got %s", cfg.PendingTTL)
	}
	if cfg.PruneInterval <= 0 {
		cfg.PruneInterval = time.Hour
	}
	if cfg.MaxWorkers <= 0 {
		cfg.MaxWorkers = 2
	}

	start := time.Now()
	metrics.RecordOperationAttempt(ctx, "initialize_queue")

	ctxLogger.Info("Initializing score queue service")

	// River requires pgx, not database/sql
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		metrics.RecordOperationFailure(ctx, "initialize_queue")
		return nil, fmt.Errorf("failed to parse DSN: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		metrics.RecordOperationFailure(ctx, "initialize_queue")
		return nil, fmt.Errorf("failed to create pgx pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		ctxLogger.Error("Failed to ping database for River", attr.Error(err))
		metrics.RecordOperationFailure(ctx, "initialize_queue")
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err := migrateRiver(ctx, pool); err != nil {
		pool.Close()
		ctxLogger.Error("Failed to migrate River schema", attr.Error(err))
		metrics.RecordOperationFailure(ctx, "initialize_queue")
		return nil, err
	}

	workers := river.NewWorkers()
	river.AddWorker(workers, NewPrunePendingWorker(ctxLogger, pruner))

	riverClient, err := river.NewClient(riverpgxv5.New(pool), &river.Config{
		Queues: map[string]river.QueueConfig{
			river.QueueDefault: {MaxWorkers: cfg.MaxWorkers},
		},
		Workers:      workers,
		PeriodicJobs: PeriodicJobs(cfg),
		Logger:       ctxLogger,
	})
	if err != nil {
		pool.Close()
		ctxLogger.Error("Failed to create River client", attr.Error(err))
		metrics.RecordOperationFailure(ctx, "initialize_queue")
		return nil, fmt.Errorf("failed to create River client: %w", err)
	}

	metrics.RecordOperationSuccess(ctx, "initialize_queue")
	metrics.RecordOperationDuration(ctx, "initialize_queue", time.Since(start))

	ctxLogger.Info("Score queue service initialized",
		attr.Duration("pending_ttl", cfg.PendingTTL),
		attr.Duration("prune_interval", cfg.PruneInterval),
	)

	return &Service{
		client:  riverClient,
		pool:    pool,
		logger:  ctxLogger,
		metrics: metrics,
	}, nil
}

// PeriodicJobs returns the recurring jobs for cfg.
func PeriodicJobs(cfg Config) []*river.PeriodicJob {
	return []*river.PeriodicJob{
		river.NewPeriodicJob(
			river.PeriodicInterval(cfg.PruneInterval),
			func() (river.JobArgs, *river.InsertOpts) {
				return PrunePendingJob{TTL: cfg.PendingTTL}, nil
			},
			&river.PeriodicJobOpts{RunOnStart: true},
		),
	}
}

func migrateRiver(ctx context.Context, pool *pgxpool.Pool) error {
	migrator, err := rivermigrate.New(riverpgxv5.New(pool), nil)
	if err != nil {
		return fmt.Errorf("failed to create River migrator: %w", err)
	}
	if _, err := migrator.Migrate(ctx, rivermigrate.DirectionUp, &rivermigrate.MigrateOpts{}); err != nil {
		return fmt.Errorf("failed to apply River migrations: %w", err)
	}
	return nil
}

// Start starts the River client.
func (s *Service) Start(ctx context.Context) error {
	s.metrics.RecordOperationAttempt(ctx, "start_queue")

	s.logger.Info("Starting score queue service")

	if err := s.client.Start(ctx); err != nil {
		s.logger.Error("Failed to start River client", attr.Error(err))
		s.metrics.RecordOperationFailure(ctx, "start_queue")
		return fmt.Errorf("failed to start River client: %w", err)
	}

	s.metrics.RecordOperationSuccess(ctx, "start_queue")
	return nil
}

// Stop waits for running jobs to finish and releases the pgx pool.
func (s *Service) Stop(ctx context.Context) error {
	s.logger.Info("Stopping score queue service")
	defer s.pool.Close()

	if err := s.client.Stop(ctx); err != nil {
		s.logger.Error("Failed to stop River client", attr.Error(err))
		return fmt.Errorf("failed to stop River client: %w", err)
	}

	s.logger.Info("Score queue service stopped")
	return nil
}
