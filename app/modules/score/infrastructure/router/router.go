package scorerouter

import (
	"log/slog"

	scorehandlers "github.com/Black-And-White-Club/meishu/app/modules/score/infrastructure/handlers"
	"github.com/go-chi/chi/v5"
)

// ScoreRouter wires score handlers onto HTTP paths.
type ScoreRouter struct {
	logger   *slog.Logger
	handlers scorehandlers.Handlers
	limiter  *scorehandlers.IPRateLimiter
}

// NewScoreRouter creates a ScoreRouter. A nil limiter leaves submissions unthrottled.
func NewScoreRouter(logger *slog.Logger, handlers scorehandlers.Handlers, limiter *scorehandlers.IPRateLimiter) *ScoreRouter {
	return &ScoreRouter{
		logger:   logger,
		handlers: handlers,
		limiter:  limiter,
	}
}

// Configure registers the JSON API, HTML pages and static assets.
func (sr *ScoreRouter) Configure(r chi.Router) {
	h := sr.handlers

	r.Route("/api", func(r chi.Router) {
		r.With(scorehandlers.RateLimitMiddleware(sr.limiter)).Post("/score", h.HandleSubmitScore)
		r.Get("/score/{id}", h.HandleGetScore)
		r.Delete("/score/{id}", h.HandleDeleteScore)
		r.Patch("/score/{id}", h.HandleFinalizeScore)
		r.Get("/scores", h.HandleListScores)
		r.Get("/scores/export.xlsx", h.HandleExportScores)
	})

	r.Get("/", h.HandleLeaderboardPage)
	r.Get("/score/{id}", h.HandleScorePage)
	r.Get("/pending", h.HandlePendingPage)
	r.Get("/leaderboard.png", h.HandleLeaderboardChart)
	r.Handle("/static/*", h.StaticHandler())

	sr.logger.Info("Score routes configured")
}
