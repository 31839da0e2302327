package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"market-summary-bot/internal/dashboard"
	"market-summary-bot/internal/logger"
	"market-summary-bot/internal/trace"
)

func main() {
	if err := initializeSystem(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer trace.Shutdown(context.Background())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig(ctx)
	if err != nil {
		os.Exit(1)
	}
	compressOldLogs(ctx)

	srv := dashboard.NewServer(initializeOrchestrator(ctx, cfg), cfg)
	if err := srv.ListenAndServe(ctx); err != nil {
		logger.ErrorWithErr(ctx, "dashboard server failed", err)
		os.Exit(1)
	}
}
