package score

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/Black-And-White-Club/frolf-bot-shared/observability/attr"
	scoreservice "github.com/Black-And-White-Club/meishu/app/modules/score/application"
	scorehandlers "github.com/Black-And-White-Club/meishu/app/modules/score/infrastructure/handlers"
	scoremetrics "github.com/Black-And-White-Club/meishu/app/modules/score/infrastructure/metrics"
	scorequeue "github.com/Black-And-White-Club/meishu/app/modules/score/infrastructure/queue"
	scoredb "github.com/Black-And-White-Club/meishu/app/modules/score/infrastructure/repositories"
	scorerouter "github.com/Black-And-White-Club/meishu/app/modules/score/infrastructure/router"
	"github.com/Black-And-White-Club/meishu/config"
	"github.com/go-chi/chi/v5"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"
)

// Module represents the score module.
type Module struct {
	ScoreService scoreservice.Service
	ScoreRouter  *scorerouter.ScoreRouter
	queue        scorequeue.QueueService
	logger       *slog.Logger
	config       *config.Config
	cancelFunc   context.CancelFunc
}

// NewScoreModule builds the score module and mounts its routes on router.
// The prune queue is only created when a pending TTL is configured.
func NewScoreModule(
	ctx context.Context,
	cfg *config.Config,
	logger *slog.Logger,
	tracer trace.Tracer,
	metrics scoremetrics.ScoreMetrics,
	db *bun.DB,
	router chi.Router,
) (*Module, error) {
	logger.Info("score.NewScoreModule called")

	repo := scoredb.NewRepository(db)
	scoreService := scoreservice.NewScoreService(repo, logger, metrics, tracer, scoreservice.Config{
		StrictFinalize: cfg.Scores.StrictFinalize,
	})

	handlers := scorehandlers.NewScoreHandlers(scoreService, logger, tracer, cfg.Scores.LeaderboardSize)
	scoreRouter := scorerouter.NewScoreRouter(logger, handlers, newSubmitLimiter(cfg.HTTP))
	scoreRouter.Configure(router)

	module := &Module{
		ScoreService: scoreService,
		ScoreRouter:  scoreRouter,
		logger:       logger,
		config:       cfg,
	}

	if cfg.Scores.PendingTTL > 0 {
		queue, err := scorequeue.NewService(ctx, cfg.Postgres.DSN, logger, scoreService, metrics, scorequeue.Config{
			PendingTTL:    cfg.Scores.PendingTTL,
			PruneInterval: cfg.Scores.PruneInterval,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create score queue: %w", err)
		}
		module.queue = queue
	}

	return module, nil
}

func newSubmitLimiter(cfg config.HTTPConfig) *scorehandlers.IPRateLimiter {
	if cfg.SubmitRate <= 0 {
		return nil
	}
	return scorehandlers.NewIPRateLimiter(rate.Limit(cfg.SubmitRate), cfg.SubmitBurst)
}

// Run starts background work and blocks until ctx is canceled.
func (m *Module) Run(ctx context.Context, wg *sync.WaitGroup) {
	m.logger.Info("Starting score module")

	ctx, cancel := context.WithCancel(ctx)
	m.cancelFunc = cancel
	defer cancel()

	if wg != nil {
		defer wg.Done()
	}

	if m.queue != nil {
		if err := m.queue.Start(ctx); err != nil {
			m.logger.Error("Failed to start score queue", attr.Error(err))
		}
	}

	<-ctx.Done()
	m.logger.Info("Score module goroutine stopped")
}

// Close stops background work.
func (m *Module) Close(ctx context.Context) error {
	m.logger.Info("Stopping score module")

	if m.cancelFunc != nil {
		m.cancelFunc()
	}

	if m.queue != nil {
		if err := m.queue.Stop(ctx); err != nil {
			return fmt.Errorf("failed to stop score queue: %w", err)
		}
	}

	m.logger.Info("Score module stopped")
	return nil
}
