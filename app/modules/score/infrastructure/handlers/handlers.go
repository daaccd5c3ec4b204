package scorehandlers

import (
	"html/template"
	"log/slog"
	"time"

	scoreservice "github.com/Black-And-White-Club/meishu/app/modules/score/application"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// ScoreHandlers implements the Handlers interface for the score ledger.
type ScoreHandlers struct {
	service         scoreservice.Service
	logger          *slog.Logger
	tracer          trace.Tracer
	pages           *template.Template
	timeParser      *SinceParser
	leaderboardSize int
}

// NewScoreHandlers creates a new ScoreHandlers instance.
func NewScoreHandlers(
	service scoreservice.Service,
	logger *slog.Logger,
	tracer trace.Tracer,
	leaderboardSize int,
) Handlers {
	if logger == nil {
		logger = slog.Default()
	}
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer("scorehandlers")
	}
	if leaderboardSize < 0 {
		leaderboardSize = 0
	}
	return &ScoreHandlers{
		service:         service,
		logger:          logger,
		tracer:          tracer,
		pages:           pageTemplates,
		timeParser:      NewSinceParser(time.Now),
		leaderboardSize: leaderboardSize,
	}
}
