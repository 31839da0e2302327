package interfaces

import (
	"context"

	"market-summary-bot/internal/types"
)

type MarketProvider interface {
	FetchQuote(ctx context.Context, ticker string, rng *types.DateRange) (types.Quote, error)
	Name() string
}
