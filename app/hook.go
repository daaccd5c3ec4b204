package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/Black-And-White-Club/frolf-bot-shared/observability/attr"
)

const shutdownTimeout = 10 * time.Second

// WaitForShutdown drains the HTTP server, stops the modules and closes the
// database pool.
func (app *App) WaitForShutdown(srv *http.Server) error {
	app.Logger.Info("Shutting down application...")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	var errs []error
	if err := srv.Shutdown(ctx); err != nil {
		app.Logger.Error("HTTP server shutdown failed", attr.Error(err))
		errs = append(errs, err)
	}

	if err := app.ScoreModule.Close(ctx); err != nil {
		app.Logger.Error("Score module shutdown failed", attr.Error(err))
		errs = append(errs, err)
	}
	app.wg.Wait()

	if err := app.DB.Close(); err != nil {
		app.Logger.Error("Error closing database connection", attr.Error(err))
		errs = append(errs, err)
	}

	app.Logger.Info("Application shut down gracefully")
	return errors.Join(errs...)
}
