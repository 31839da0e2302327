package market

import (
	"context"
	"fmt"
	"time"

	kiteconnect "github.com/zerodha/gokiteconnect/v4"

	"market-summary-bot/internal/logger"
	"market-summary-bot/internal/types"
)

// KiteClient serves quotes from the Zerodha Kite Connect API. Historical
// series need an instrument-token dump, so range requests are answered with
// the latest quote only.
type KiteClient struct {
	kc       *kiteconnect.Client
	exchange string
}

// NewKiteClient creates a Kite-backed provider. Credentials are injected by
// the caller and never logged.
func NewKiteClient(apiKey, accessToken, exchange string) *KiteClient {
	kc := kiteconnect.New(apiKey)
	kc.SetAccessToken(accessToken)
	return &KiteClient{kc: kc, exchange: exchange}
}

func (c *KiteClient) Name() string {
	return "Kite"
}

// FetchQuote looks up the latest quote for ticker on the configured exchange.
func (c *KiteClient) FetchQuote(ctx context.Context, ticker string, rng *types.DateRange) (types.Quote, error) {
	if err := ctx.Err(); err != nil {
		return types.Quote{}, &FetchError{Provider: c.Name(), Ticker: ticker, Err: err}
	}
	if rng != nil {
		logger.Debug(ctx, "Kite provider ignores date range, returning latest quote only", "ticker", ticker)
	}

	instrument := fmt.Sprintf("%s:%s", c.exchange, ticker)
	quotes, err := c.kc.GetQuote(instrument)
	if err != nil {
		return types.Quote{}, &FetchError{Provider: c.Name(), Ticker: ticker, Err: err}
	}

	q, ok := quotes[instrument]
	if !ok {
		return types.Quote{}, &TickerNotFoundError{Ticker: ticker}
	}

	quote := types.Quote{
		Ticker:    ticker,
		Price:     q.LastPrice,
		ChangeAbs: q.NetChange,
		Currency:  "INR",
		AsOf:      q.Timestamp.Time,
	}
	if quote.AsOf.IsZero() {
		quote.AsOf = time.Now().UTC()
	}
	if q.OHLC.Close != 0 {
		quote.ChangePct = q.NetChange / q.OHLC.Close * 100
	}
	return quote, nil
}
