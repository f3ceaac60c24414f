package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/yourname/renescens/internal"
	"github.com/yourname/renescens/internal/app"
	"github.com/yourname/renescens/internal/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		_, _ = os.Stderr.WriteString("config error: " + err.Error() + "\n")
		os.Exit(2)
	}

	logger, err := internal.NewLogger(cfg.LogLevel)
	if err != nil {
		_, _ = os.Stderr.WriteString("logger init error: " + err.Error() + "\n")
		os.Exit(2)
	}
	defer func() { _ = logger.Sync() }()

	for _, dir := range []string{cfg.DataDir, filepath.Dir(cfg.SQLitePath), filepath.Dir(cfg.UsersFile)} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			logger.Fatalf("failed to create %s: %v", dir, err)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Fatalf("app init failed: %v", err)
	}
	if err := application.Run(ctx); err != nil {
		logger.Fatalf("app run failed: %v", err)
	}
}
