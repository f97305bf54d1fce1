package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"invest_backend/internal/app/di"
	"invest_backend/internal/app/router"
	"invest_backend/internal/platform/logger"
	"invest_backend/internal/platform/telemetry"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		slog.Error("server exited with error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// .env はローカル開発用。存在しなくてもよい
	_ = godotenv.Load()

	logCfg, err := logger.LoadConfigFromEnv()
	if err != nil {
		return err
	}
	log := logger.Setup(logCfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, cleanup, err := di.Bootstrap(ctx)
	if err != nil {
		return err
	}
	defer cleanup()
	cfg := app.Config()

	otelCfg, err := telemetry.LoadConfigFromEnv()
	if err != nil {
		return err
	}
	shutdownTracing, err := telemetry.Setup(ctx, cfg.AppName, cfg.AppVersion, otelCfg)
	if err != nil {
		slog.Warn("tracing disabled", "error", err)
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := shutdownTracing(sctx); err != nil {
			slog.Error("failed to flush traces", "error", err)
		}
	}()

	if cfg.AppEnv != "local" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := router.NewRouter(app.Handlers(), app.JWTSecret(), cfg.AppName, log)

	srv := &http.Server{
		Addr:              cfg.ServerAddr,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server starting", "addr", cfg.ServerAddr, "env", cfg.AppEnv, "version", cfg.AppVersion)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down server")
	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(sctx)
}
