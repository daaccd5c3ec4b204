package app

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/Black-And-White-Club/frolf-bot-shared/observability/attr"
	"github.com/Black-And-White-Club/meishu/app/modules/score"
	scorehandlers "github.com/Black-And-White-Club/meishu/app/modules/score/infrastructure/handlers"
	scoremetrics "github.com/Black-And-White-Club/meishu/app/modules/score/infrastructure/metrics"
	"github.com/Black-And-White-Club/meishu/config"
	"github.com/Black-And-White-Club/meishu/db/bundb"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel"
)

// App wires configuration, storage, modules and the HTTP router together.
type App struct {
	Config      *config.Config
	Logger      *slog.Logger
	DB          *bun.DB
	Router      chi.Router
	Registry    *prometheus.Registry
	ScoreModule *score.Module

	wg sync.WaitGroup
}

// NewApp connects to the database, applies migrations and builds the modules.
func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	logger := NewLogger(cfg.Logging, cfg.Observability)
	logger.Info("Initializing application", attr.String("addr", cfg.HTTP.Addr))

	db, err := bundb.Open(ctx, cfg.Postgres)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	if err := bundb.Migrate(ctx, db, logger); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	registry := prometheus.NewRegistry()
	var metrics scoremetrics.ScoreMetrics = scoremetrics.NewNoop()
	if cfg.Observability.MetricsEnabled {
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		pm, err := scoremetrics.NewPrometheus(registry, cfg.Observability.ServiceName)
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to register metrics: %w", err)
		}
		metrics = pm
	}

	tracer := otel.Tracer(cfg.Observability.ServiceName)

	router := chi.NewRouter()
	router.Use(
		middleware.RequestID,
		middleware.RealIP,
		scorehandlers.CorrelationMiddleware,
		scorehandlers.RequestLogger(logger),
		middleware.Recoverer,
	)
	if cfg.Observability.MetricsEnabled {
		router.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry}))
	}

	scoreModule, err := score.NewScoreModule(ctx, cfg, logger, tracer, metrics, db, router)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize score module: %w", err)
	}

	return &App{
		Config:      cfg,
		Logger:      logger,
		DB:          db,
		Router:      router,
		Registry:    registry,
		ScoreModule: scoreModule,
	}, nil
}

// Run starts the modules and serves HTTP until ctx is canceled.
func (app *App) Run(ctx context.Context) error {
	app.wg.Add(1)
	go app.ScoreModule.Run(ctx, &app.wg)

	return app.Start(ctx)
}
