package server

import (
	"context"
	"os"
	"os/signal"
	"time"

	"findmyjob-backend/internal/shared/telemetry"
)

// Stoppable is anything that can drain in-flight work before exiting.
type Stoppable interface {
	Shutdown(ctx context.Context) error
}

// Graceful blocks until one of signals arrives, then shuts s down within timeout.
func Graceful(signals []os.Signal, s Stoppable, timeout time.Duration) error {
	sigCtx, stop := signal.NotifyContext(context.Background(), signals...)
	defer stop()
	return GracefulContext(sigCtx, s, timeout)
}

// GracefulContext shuts s down once ctx is done.
func GracefulContext(ctx context.Context, s Stoppable, timeout time.Duration) error {
	<-ctx.Done()
	telemetry.Info("server.shutdown_requested", map[string]any{"timeout": timeout.String()})

	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := s.Shutdown(shutdownCtx); err != nil {
		telemetry.Warn("server.shutdown_incomplete", map[string]any{"error": err})
		return err
	}
	telemetry.Info("server.shutdown_complete", nil)
	return nil
}
