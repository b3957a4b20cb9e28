package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/Brasil-Rental-Karts/brk-backend-sub002/app"
	"github.com/Brasil-Rental-Karts/brk-backend-sub002/config"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadConfig("config.yaml")
	if err != nil {
		slog.Error("Failed to load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil)).With(
		slog.String("service", "classification"),
		slog.String("environment", cfg.Observability.Environment),
	)

	application, err := app.NewApp(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize app", slog.Any("error", err))
		os.Exit(1)
	}

	if err := application.Run(ctx); err != nil {
		logger.Error("Application run failed", slog.Any("error", err))
	}

	logger.Info("Shutting down application")
	if err := application.Close(); err != nil {
		logger.Error("Shutdown finished with errors", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("Application shut down gracefully")
}
