package app

import (
	"context"
	"time"

	"github.com/armatek/armature/internal/ctxlog"
)

// shutdownGrace bounds how long in-flight HTTP requests may drain once the
// process is asked to stop.
const shutdownGrace = 10 * time.Second

// Run boots the module runtime and serves HTTP until ctx is canceled or the
// server fails. Shutdown is orderly: the HTTP server drains first, then the
// runtime closes its watchers and storage.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run started.")

	if err := a.runtime.Boot(ctx, a.config.ModulesPath); err != nil {
		return err
	}
	a.logger.Info("Host ready.", "modules_loaded", a.runtime.LoadedCount())

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- a.server.Start()
	}()

	var runErr error
	select {
	case <-ctx.Done():
		a.logger.Info("Shutdown requested.")
	case err := <-serverErr:
		runErr = err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	shutdownCtx = ctxlog.WithLogger(shutdownCtx, a.logger)

	if err := a.server.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("HTTP server shutdown failed.", "error", err)
		if runErr == nil {
			runErr = err
		}
	}
	if err := a.runtime.Shutdown(shutdownCtx); err != nil && runErr == nil {
		runErr = err
	}
	a.bus.Close()

	a.logger.Debug("App.Run finished.")
	return runErr
}
