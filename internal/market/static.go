package market

import (
	"context"
	"math/rand"
	"time"

	"market-summary-bot/internal/types"
)

// StaticClient generates synthetic quotes for offline runs and tests.
// Prices are a random walk around a per-ticker base.
type StaticClient struct{}

func NewStaticClient() *StaticClient {
	return &StaticClient{}
}

func (c *StaticClient) Name() string {
	return "Static"
}

func (c *StaticClient) FetchQuote(ctx context.Context, ticker string, rng *types.DateRange) (types.Quote, error) {
	base := 100.0 + float64(len(ticker))*25

	days := 5
	if rng != nil {
		days = rng.Days()
	}

	now := time.Now().UTC()
	series := make([]types.PricePoint, 0, days)
	price := base
	for i := days; i > 0; i-- {
		price += (rand.Float64() - 0.5) * base * 0.02
		series = append(series, types.PricePoint{
			Date:  now.AddDate(0, 0, -i+1),
			Close: price,
		})
	}

	latest := series[len(series)-1].Close
	prev := latest
	if len(series) >= 2 {
		prev = series[len(series)-2].Close
	}

	quote := types.Quote{
		Ticker:   ticker,
		Price:    latest,
		Currency: "USD",
		AsOf:     now,
	}
	if prev != 0 {
		quote.ChangeAbs = latest - prev
		quote.ChangePct = quote.ChangeAbs / prev * 100
	}
	if rng != nil {
		quote.Series = series
	}
	return quote, nil
}
