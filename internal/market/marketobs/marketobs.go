package marketobs

import (
	"context"

	"market-summary-bot/internal/interfaces"
	"market-summary-bot/internal/logger"
	"market-summary-bot/internal/trace"
	"market-summary-bot/internal/types"
)

// observableProvider wraps a MarketProvider with observability (logging & tracing)
type observableProvider struct {
	provider interfaces.MarketProvider
}

// Compile-time interface check
var _ interfaces.MarketProvider = (*observableProvider)(nil)

// Wrap wraps a market data provider with observability middleware
func Wrap(provider interfaces.MarketProvider) interfaces.MarketProvider {
	return &observableProvider{
		provider: provider,
	}
}

func (op *observableProvider) Name() string {
	return op.provider.Name()
}

// FetchQuote fetches a quote with observability
func (op *observableProvider) FetchQuote(ctx context.Context, ticker string, rng *types.DateRange) (types.Quote, error) {
	ctx, span := trace.StartSpan(ctx, "market.FetchQuote")
	defer span.End()

	logger.DebugSkip(ctx, 1, "Fetching quote",
		"provider", op.provider.Name(),
		"ticker", ticker,
		"with_series", rng != nil,
	)

	quote, err := op.provider.FetchQuote(ctx, ticker, rng)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Failed to fetch quote", err,
			"provider", op.provider.Name(),
			"ticker", ticker,
		)
		return types.Quote{}, err
	}

	logger.InfoSkip(ctx, 1, "Quote fetched",
		"provider", op.provider.Name(),
		"ticker", ticker,
		"price", quote.Price,
		"change_pct", quote.ChangePct,
	)

	return quote, nil
}
