package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"screener/config"
	"screener/internal/app"
	"screener/internal/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	appLog, err := logger.NewStructured(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer appLog.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, appLog)
	if err != nil {
		appLog.WithError(err).Error("Failed to start", nil)
		os.Exit(1)
	}

	appLog.Info("Endpoints", map[string]interface{}{
		"public": []string{"GET /assessments/screener", "POST /assessments/score", "POST /auth/login"},
		"admin":  []string{"POST /admin/reference/reload", "WS /admin/ws/submissions"},
		"probes": []string{"GET /health", "GET /ready", "GET /metrics"},
	})

	if err := a.Run(ctx); err != nil {
		appLog.WithError(err).Error("Server stopped with error", nil)
		os.Exit(1)
	}
}
