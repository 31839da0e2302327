package market

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"market-summary-bot/internal/api"
	"market-summary-bot/internal/types"
)

const defaultYahooEndpoint = "https://query1.finance.yahoo.com/v8/finance/chart"

// YahooClient fetches quotes and daily close series from the public Yahoo
// Finance chart API. No credential required.
type YahooClient struct {
	client   *api.Client
	endpoint string
}

// YahooOption configures the client
type YahooOption func(*YahooClient)

// WithYahooEndpoint overrides the chart API endpoint (tests)
func WithYahooEndpoint(endpoint string) YahooOption {
	return func(c *YahooClient) {
		if endpoint != "" {
			c.endpoint = endpoint
		}
	}
}

// NewYahooClient creates a Yahoo-backed market data provider
func NewYahooClient(timeout time.Duration, opts ...YahooOption) *YahooClient {
	c := &YahooClient{
		client: api.NewClient(
			api.WithTimeout(timeout),
			api.WithLogging(true),
			api.WithHeader("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"),
		),
		endpoint: defaultYahooEndpoint,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *YahooClient) Name() string {
	return "Yahoo"
}

// FetchQuote returns the latest quote for ticker; when rng is given the
// result also carries a daily close series covering the range.
func (c *YahooClient) FetchQuote(ctx context.Context, ticker string, rng *types.DateRange) (types.Quote, error) {
	req := api.NewRequest("GET", fmt.Sprintf("%s/%s", c.endpoint, ticker)).
		WithContext(ctx).
		WithQuery("interval", "1d")
	if rng != nil {
		req.WithQuery("period1", fmt.Sprintf("%d", rng.From.Unix())).
			WithQuery("period2", fmt.Sprintf("%d", rng.To.Unix()))
	} else {
		req.WithQuery("range", "5d")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		var statusErr *api.StatusError
		if errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusNotFound {
			return types.Quote{}, &TickerNotFoundError{Ticker: ticker}
		}
		return types.Quote{}, &FetchError{Provider: c.Name(), Ticker: ticker, Err: err}
	}

	var raw yahooChartResponse
	if err := resp.ParseJSON(&raw); err != nil {
		return types.Quote{}, &FetchError{Provider: c.Name(), Ticker: ticker, Err: err}
	}
	if raw.Chart.Error != nil && raw.Chart.Error.Code != "" {
		// Yahoo reports unknown symbols inside the JSON envelope
		if raw.Chart.Error.Code == "Not Found" {
			return types.Quote{}, &TickerNotFoundError{Ticker: ticker}
		}
		return types.Quote{}, &FetchError{Provider: c.Name(), Ticker: ticker,
			Err: fmt.Errorf("%s: %s", raw.Chart.Error.Code, raw.Chart.Error.Description)}
	}
	if len(raw.Chart.Result) == 0 {
		return types.Quote{}, &TickerNotFoundError{Ticker: ticker}
	}

	return buildQuote(ticker, raw.Chart.Result[0], rng != nil)
}

func buildQuote(ticker string, result yahooChartResult, wantSeries bool) (types.Quote, error) {
	meta := result.Meta
	quote := types.Quote{
		Ticker:   ticker,
		Price:    meta.RegularMarketPrice,
		Currency: meta.Currency,
		AsOf:     time.Unix(meta.RegularMarketTime, 0).UTC(),
	}

	series := closeSeries(result)

	// Change vs prior close: prefer the series, fall back to the meta
	// previous close.
	prevClose := meta.ChartPreviousClose
	if len(series) >= 2 {
		prevClose = series[len(series)-2].Close
	}
	if prevClose != 0 {
		quote.ChangeAbs = quote.Price - prevClose
		quote.ChangePct = quote.ChangeAbs / prevClose * 100
	}

	if wantSeries {
		quote.Series = series
	}

	if quote.Price == 0 && len(series) == 0 {
		return types.Quote{}, &TickerNotFoundError{Ticker: ticker}
	}
	return quote, nil
}

// closeSeries flattens the chart response into (date, close) points,
// skipping null closes for non-trading days.
func closeSeries(result yahooChartResult) []types.PricePoint {
	if len(result.Indicators.Quote) == 0 {
		return nil
	}
	closes := result.Indicators.Quote[0].Close

	points := make([]types.PricePoint, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		if i >= len(closes) || closes[i] == nil {
			continue
		}
		points = append(points, types.PricePoint{
			Date:  time.Unix(ts, 0).UTC(),
			Close: *closes[i],
		})
	}
	return points
}

type yahooChartResponse struct {
	Chart struct {
		Result []yahooChartResult `json:"result"`
		Error  *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

type yahooChartResult struct {
	Meta struct {
		Currency           string  `json:"currency"`
		Symbol             string  `json:"symbol"`
		RegularMarketPrice float64 `json:"regularMarketPrice"`
		ChartPreviousClose float64 `json:"chartPreviousClose"`
		RegularMarketTime  int64   `json:"regularMarketTime"`
	} `json:"meta"`
	Timestamp  []int64 `json:"timestamp"`
	Indicators struct {
		Quote []struct {
			Close []*float64 `json:"close"`
		} `json:"quote"`
	} `json:"indicators"`
}
