package main

import (
	"context"
	"fmt"
	"os"

	"market-summary-bot/internal/llm"
	"market-summary-bot/internal/llm/llmobs"
	"market-summary-bot/internal/logger"
	"market-summary-bot/internal/market"
	"market-summary-bot/internal/market/marketobs"
	"market-summary-bot/internal/news"
	"market-summary-bot/internal/news/newsobs"
	"market-summary-bot/internal/pipeline"
	"market-summary-bot/internal/prompt"
	"market-summary-bot/internal/runlog"
	"market-summary-bot/internal/store"
	"market-summary-bot/internal/trace"

	"github.com/joho/godotenv"
)

// initializeSystem initializes logger and tracer
func initializeSystem() error {
	_ = godotenv.Load()

	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	if err := trace.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize tracer: %v\n", err)
	}
	return nil
}

func loadConfig(ctx context.Context) (*store.Config, error) {
	cfg, err := store.LoadConfig("config.yaml")
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to load config", err)
		return nil, err
	}
	return cfg, nil
}

func compressOldLogs(ctx context.Context) {
	if v := os.Getenv("SUMMARY_LOG_RETENTION_DAYS"); v != "" {
		var n int
		fmt.Sscanf(v, "%d", &n)
		if err := runlog.CompressOlder(n); err != nil {
			logger.Warn(ctx, "Failed to compress old logs", "error", err)
		}
	}
}

// initializeOrchestrator wires the full pipeline with observability middleware
func initializeOrchestrator(ctx context.Context, cfg *store.Config) *pipeline.Orchestrator {
	apiKey := os.Getenv("NEWS_API_KEY")
	if cfg.News.Provider == "NEWSAPI" && apiKey == "" {
		logger.Warn(ctx, "NEWS_API_KEY not set, NewsAPI requests will be rejected")
	}
	newsSvc := news.NewService(newsobs.Wrap(news.NewProvider(cfg, apiKey)), cfg.CacheTTL(), cfg.Cache.Enabled)
	marketSvc := market.NewService(marketobs.Wrap(market.NewProvider(cfg)), cfg.CacheTTL(), cfg.Cache.Enabled)

	return pipeline.New(
		newsSvc,
		marketSvc,
		prompt.NewComposer(cfg.Prompt.MaxChars, ""),
		llmobs.Wrap(llm.NewSummarizer(cfg)),
		cfg,
	)
}
