package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/Eggie20/Online-Supermarket/internal/app"
	"github.com/Eggie20/Online-Supermarket/internal/config"
	"github.com/Eggie20/Online-Supermarket/pkg/logger"
)

const serviceName = "storefront-service"

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", slog.String("error", err.Error()))
		return 1
	}

	log := logger.New(serviceName, cfg.LogLevel)
	slog.SetDefault(log)
	log.Info("storefront starting",
		slog.String("environment", cfg.Environment),
		slog.String("instance_id", cfg.InstanceID),
		slog.Int("http_port", cfg.HTTPPort),
		slog.String("storage", cfg.StorageBackend),
		slog.Bool("kafka", cfg.KafkaEnabled),
	)

	application, err := app.NewApp(cfg, log)
	if err != nil {
		log.Error("storefront init failed", slog.String("error", err.Error()))
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := application.Run(ctx); err != nil {
		log.Error("storefront stopped with error", slog.String("error", err.Error()))
		return 1
	}
	log.Info("storefront stopped")
	return 0
}
