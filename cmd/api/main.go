package main

import (
	"errors"
	"net/http"
	"os"
	"syscall"
	"time"

	"findmyjob-backend/internal/bootstrap"
	"findmyjob-backend/internal/shared/config"
	"findmyjob-backend/internal/shared/server"
	"findmyjob-backend/internal/shared/telemetry"
)

func main() {
	cfg := config.Load()
	telemetry.SetLevel(cfg.LogLevel)
	defer telemetry.Sync()

	app, err := bootstrap.Build(cfg)
	if err != nil {
		telemetry.Error("api.bootstrap_failed", map[string]any{"error": err})
		os.Exit(1)
	}

	srv := &http.Server{
		Addr:              server.Addr(cfg.Port),
		Handler:           app.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = server.Graceful([]os.Signal{os.Interrupt, syscall.SIGTERM}, srv, cfg.ShutdownTimeout)
	}()

	telemetry.Info("api.started", map[string]any{"addr": srv.Addr, "env": cfg.Env})
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		telemetry.Error("api.server_failed", map[string]any{"error": err})
		_ = app.Close()
		os.Exit(1)
	}

	<-done
	if err := app.Close(); err != nil {
		telemetry.Warn("api.close_failed", map[string]any{"error": err})
	}
	telemetry.Info("api.stopped", nil)
}
