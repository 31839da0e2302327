package newsobs

import (
	"context"

	"market-summary-bot/internal/interfaces"
	"market-summary-bot/internal/logger"
	"market-summary-bot/internal/trace"
	"market-summary-bot/internal/types"
)

// observableProvider wraps a NewsProvider with observability (logging & tracing)
type observableProvider struct {
	provider interfaces.NewsProvider
}

// Compile-time interface check
var _ interfaces.NewsProvider = (*observableProvider)(nil)

// Wrap wraps a news provider with observability middleware
func Wrap(provider interfaces.NewsProvider) interfaces.NewsProvider {
	return &observableProvider{
		provider: provider,
	}
}

func (op *observableProvider) Name() string {
	return op.provider.Name()
}

// FetchHeadlines fetches headlines with observability
func (op *observableProvider) FetchHeadlines(ctx context.Context, query string, pageSize int) ([]types.Headline, error) {
	ctx, span := trace.StartSpan(ctx, "news.FetchHeadlines")
	defer span.End()

	logger.DebugSkip(ctx, 1, "Fetching headlines",
		"provider", op.provider.Name(),
		"query", query,
		"page_size", pageSize,
	)

	headlines, err := op.provider.FetchHeadlines(ctx, query, pageSize)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Failed to fetch headlines", err,
			"provider", op.provider.Name(),
			"query", query,
		)
		return nil, err
	}

	logger.InfoSkip(ctx, 1, "Headlines fetched",
		"provider", op.provider.Name(),
		"query", query,
		"count", len(headlines),
	)

	return headlines, nil
}
