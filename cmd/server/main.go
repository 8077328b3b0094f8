// @title Plan vs Actuals API
// @version 1.0
// @description Reconciles the garment loading plan with shop-floor output and exports the report as a workbook.

// @host localhost:8501
// @BasePath /
// @schemes http https

package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"planact/internal/config"
	"planact/server"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	logger := server.InitLogger(cfg.SlogLevel(), cfg.LogFormat)
	logger.Info("configuration loaded",
		"port", cfg.Port,
		"team_label", cfg.TeamLabel,
		"plan_fixed_columns", cfg.PlanFixedColumns,
		"max_upload_bytes", cfg.MaxUploadBytes)

	srv := server.NewServer(cfg, logger)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("server stopped", "error", err)
			os.Exit(1)
		}
		return
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			logger.Warn("shutdown timed out, in-flight requests were dropped")
		} else {
			logger.Error("shutdown failed", "error", err)
		}
		os.Exit(1)
	}
	if err := <-errCh; err != nil {
		logger.Error("server stopped", "error", err)
	}
}
