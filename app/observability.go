package app

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/Black-And-White-Club/meishu/config"
)

// NewLogger builds the root logger from config and tags it with the service
// name and environment.
func NewLogger(cfg config.LoggingConfig, obs config.ObservabilityConfig) *slog.Logger {
	return newLogger(os.Stdout, cfg, obs)
}

func newLogger(w io.Writer, cfg config.LoggingConfig, obs config.ObservabilityConfig) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(cfg.Level)}

	var handler slog.Handler
	if strings.EqualFold(cfg.Format, "text") {
		handler = slog.NewTextHandler(w, opts)
	} else {
		handler = slog.NewJSONHandler(w, opts)
	}

	logger := slog.New(handler)
	if obs.ServiceName != "" {
		logger = logger.With(slog.String("service", obs.ServiceName))
	}
	if obs.Environment != "" {
		logger = logger.With(slog.String("env", obs.Environment))
	}
	return logger
}

func parseLevel(s string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo
	}
	return level
}
