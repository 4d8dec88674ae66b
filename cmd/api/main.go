package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"skin-health-backend/internal/bootstrap"
	"skin-health-backend/internal/classifier/tflite"
	"skin-health-backend/internal/shared/config"
	"skin-health-backend/internal/shared/server"
	"skin-health-backend/internal/shared/telemetry"
)

func main() {
	cfg := config.Load()
	defer telemetry.Sync()

	backend, err := tflite.Open(cfg.ModelPath, tflite.Options{
		Threads:  cfg.ModelThreads,
		PoolSize: cfg.ModelPoolSize,
	})
	if err != nil {
		log.Fatalf("load model: %v", err)
	}
	defer backend.Close()

	app, err := bootstrap.Build(cfg, backend)
	if err != nil {
		log.Fatalf("bootstrap build: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go app.RunJanitor(ctx)

	srv := &http.Server{
		Addr:              server.Addr(cfg.Port),
		Handler:           app.Router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      cfg.InferenceTimeout + 60*time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		telemetry.Info("server.listening", map[string]any{"addr": srv.Addr, "env": cfg.Env})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	<-ctx.Done()
	telemetry.Info("server.shutting_down", nil)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		telemetry.Error("server.shutdown_failed", map[string]any{"error": err})
	}
}
