package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"market-summary-bot/internal/logger"
	"market-summary-bot/internal/pipeline"
	"market-summary-bot/internal/trace"
	"market-summary-bot/internal/types"
)

func main() {
	os.Exit(run())
}

func run() int {
	query := flag.String("query", "", "news query (overrides config)")
	tickers := flag.String("tickers", "", "comma-separated tickers (overrides config)")
	rangeDays := flag.Int("range-days", 0, "price history window in days (overrides config)")
	flag.Parse()

	if err := initializeSystem(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer trace.Shutdown(context.Background())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig(ctx)
	if err != nil {
		return 1
	}
	compressOldLogs(ctx)

	req := pipeline.Request{
		Query:   cfg.News.Query,
		Tickers: cfg.Market.Tickers,
	}
	if *query != "" {
		req.Query = *query
	}
	if *tickers != "" {
		req.Tickers = splitTickers(*tickers)
	}
	days := cfg.Market.RangeDays
	if *rangeDays > 0 {
		days = *rangeDays
	}
	now := time.Now()
	req.Range = &types.DateRange{From: now.AddDate(0, 0, -days), To: now}

	orch := initializeOrchestrator(ctx, cfg)
	orch.OnStage = printStage

	res, err := orch.Run(ctx, req)
	if err != nil {
		logger.ErrorWithErr(ctx, "run failed", err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	fmt.Printf("LLM Response:\n%s\n", res.Summary.Text)
	return 0
}

func printStage(s pipeline.State) {
	switch s {
	case pipeline.StateFetchingNews:
		fmt.Println("Fetching latest finance news...")
	case pipeline.StateFetchingMarket:
		fmt.Println("Fetching stock market data...")
	case pipeline.StateSummarizing:
		fmt.Println("Generating AI summary...")
	}
}

func splitTickers(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.ToUpper(strings.TrimSpace(p)); t != "" {
			out = append(out, t)
		}
	}
	return out
}
