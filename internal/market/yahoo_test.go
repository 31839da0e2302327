package market

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"market-summary-bot/internal/types"
)

func yahooChartPayload(symbol string, closes []float64) string {
	ts := ""
	cs := ""
	base := time.Date(2026, 8, 24, 13, 30, 0, 0, time.UTC)
	for i, c := range closes {
		if i > 0 {
			ts += ","
			cs += ","
		}
		ts += fmt.Sprintf("%d", base.AddDate(0, 0, i).Unix())
		cs += fmt.Sprintf("%.2f", c)
	}
	latest := closes[len(closes)-1]
	return fmt.Sprintf(`{
		"chart": {
			"result": [{
				"meta": {
					"currency": "USD",
					"symbol": %q,
					"regularMarketPrice": %.2f,
					"chartPreviousClose": %.2f,
					"regularMarketTime": %d
				},
				"timestamp": [%s],
				"indicators": {"quote": [{"close": [%s]}]}
			}],
			"error": null
		}
	}`, symbol, latest, closes[0], base.AddDate(0, 0, len(closes)-1).Unix(), ts, cs)
}

func TestYahooFetchQuote(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(yahooChartPayload("AAPL", []float64{190.00, 191.17, 192.22})))
	}))
	defer srv.Close()

	client := NewYahooClient(5*time.Second, WithYahooEndpoint(srv.URL))

	quote, err := client.FetchQuote(context.Background(), "AAPL", nil)
	if err != nil {
		t.Fatalf("FetchQuote returned error: %v", err)
	}

	if quote.Ticker != "AAPL" {
		t.Errorf("Expected ticker AAPL, got %s", quote.Ticker)
	}
	if quote.Price != 192.22 {
		t.Errorf("Expected price 192.22, got %f", quote.Price)
	}
	// Change is computed against the prior series close (191.17)
	wantPct := (192.22 - 191.17) / 191.17 * 100
	if diff := quote.ChangePct - wantPct; diff > 0.001 || diff < -0.001 {
		t.Errorf("Expected change pct %.4f, got %.4f", wantPct, quote.ChangePct)
	}
	if quote.AsOf.IsZero() {
		t.Error("Expected AsOf to be set")
	}
	if quote.Series != nil {
		t.Error("Expected no series without a range")
	}
}

func TestYahooFetchQuoteWithRange(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("period1") == "" || r.URL.Query().Get("period2") == "" {
			t.Error("Expected period1/period2 query params for range request")
		}
		w.Write([]byte(yahooChartPayload("AAPL", []float64{188.10, 189.50, 190.00, 191.17, 192.22})))
	}))
	defer srv.Close()

	client := NewYahooClient(5*time.Second, WithYahooEndpoint(srv.URL))

	rng := &types.DateRange{
		From: time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC),
		To:   time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC),
	}
	quote, err := client.FetchQuote(context.Background(), "AAPL", rng)
	if err != nil {
		t.Fatalf("FetchQuote returned error: %v", err)
	}

	if len(quote.Series) != 5 {
		t.Fatalf("Expected 5 series points, got %d", len(quote.Series))
	}
	if quote.Series[0].Close != 188.10 {
		t.Errorf("Expected first close 188.10, got %f", quote.Series[0].Close)
	}
}

func TestYahooFetchQuoteNullCloses(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"chart": {
				"result": [{
					"meta": {"currency": "USD", "symbol": "AAPL", "regularMarketPrice": 192.22, "chartPreviousClose": 190.0, "regularMarketTime": 1756387800},
					"timestamp": [1756128600, 1756215000, 1756301400],
					"indicators": {"quote": [{"close": [190.0, null, 192.22]}]}
				}],
				"error": null
			}
		}`))
	}))
	defer srv.Close()

	client := NewYahooClient(5*time.Second, WithYahooEndpoint(srv.URL))

	rng := &types.DateRange{From: time.Now().AddDate(0, 0, -3), To: time.Now()}
	quote, err := client.FetchQuote(context.Background(), "AAPL", rng)
	if err != nil {
		t.Fatalf("FetchQuote returned error: %v", err)
	}
	if len(quote.Series) != 2 {
		t.Errorf("Expected null closes to be skipped, got %d points", len(quote.Series))
	}
}

func TestYahooFetchQuoteNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found, symbol may be delisted"}}}`))
	}))
	defer srv.Close()

	client := NewYahooClient(5*time.Second, WithYahooEndpoint(srv.URL))

	_, err := client.FetchQuote(context.Background(), "NOSUCH", nil)

	var notFound *TickerNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("Expected *TickerNotFoundError, got %v", err)
	}
	if notFound.Ticker != "NOSUCH" {
		t.Errorf("Expected ticker NOSUCH in error, got %s", notFound.Ticker)
	}
}

func TestYahooFetchQuoteServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewYahooClient(5*time.Second, WithYahooEndpoint(srv.URL))

	_, err := client.FetchQuote(context.Background(), "AAPL", nil)

	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("Expected *FetchError on 500, got %v", err)
	}
}
