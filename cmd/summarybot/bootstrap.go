package main

import (
	"context"
	"fmt"
	"os"

	"market-summary-bot/internal/interfaces"
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
	// Load environment variables
	_ = godotenv.Load()

	// Initialize logger
	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	// Initialize tracer
	if err := trace.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize tracer: %v\n", err)
	}

	return nil
}

// loadConfig loads and returns the configuration
func loadConfig(ctx context.Context) (*store.Config, error) {
	cfg, err := store.LoadConfig("config.yaml")
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to load config", err)
		return nil, err
	}
	return cfg, nil
}

// compressOldLogs compresses old run log files if retention is configured
func compressOldLogs(ctx context.Context) {
	if v := os.Getenv("SUMMARY_LOG_RETENTION_DAYS"); v != "" {
		var n int
		fmt.Sscanf(v, "%d", &n)
		if err := runlog.CompressOlder(n); err != nil {
			logger.Warn(ctx, "Failed to compress old logs", "error", err)
		}
	}
}

// initializeNews builds the news service with observability middleware
func initializeNews(ctx context.Context, cfg *store.Config) *news.Service {
	apiKey := os.Getenv("NEWS_API_KEY")
	if cfg.News.Provider == "NEWSAPI" && apiKey == "" {
		logger.Warn(ctx, "NEWS_API_KEY not set, NewsAPI requests will be rejected")
	}

	provider := newsobs.Wrap(news.NewProvider(cfg, apiKey))
	return news.NewService(provider, cfg.CacheTTL(), cfg.Cache.Enabled)
}

// initializeMarket builds the market data service with observability middleware
func initializeMarket(ctx context.Context, cfg *store.Config) *market.Service {
	provider := marketobs.Wrap(market.NewProvider(cfg))
	logger.Info(ctx, "market data provider selected", "provider", provider.Name())
	return market.NewService(provider, cfg.CacheTTL(), cfg.Cache.Enabled)
}

// initializeSummarizer builds the LLM client with observability middleware
func initializeSummarizer(ctx context.Context, cfg *store.Config) interfaces.Summarizer {
	s := llm.NewSummarizer(cfg)
	if s.ModelID() == "noop" && cfg.LLM.Provider != "NOOP" {
		logger.Warn(ctx, "No LLM credentials found - using canned summaries")
	}
	return llmobs.Wrap(s)
}

// initializeOrchestrator wires the full pipeline
func initializeOrchestrator(ctx context.Context, cfg *store.Config) *pipeline.Orchestrator {
	return pipeline.New(
		initializeNews(ctx, cfg),
		initializeMarket(ctx, cfg),
		prompt.NewComposer(cfg.Prompt.MaxChars, ""),
		initializeSummarizer(ctx, cfg),
		cfg,
	)
}
