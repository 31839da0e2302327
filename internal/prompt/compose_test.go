package prompt

import (
	"errors"
	"strings"
	"testing"
	"time"

	"market-summary-bot/internal/types"
)

func sampleHeadlines(n int) []types.Headline {
	base := time.Date(2026, 8, 28, 14, 30, 0, 0, time.UTC)
	titles := []string{
		"Dow gains as investors await inflation report",
		"Tech stocks rally on chip demand",
		"Oil slides after inventory build",
		"Treasury yields edge lower",
		"Retail earnings beat expectations",
	}
	headlines := make([]types.Headline, 0, n)
	for i := 0; i < n; i++ {
		headlines = append(headlines, types.Headline{
			Title:       titles[i%len(titles)],
			Source:      "Reuters",
			URL:         "https://example.com/a",
			PublishedAt: base.Add(-time.Duration(i) * time.Hour),
		})
	}
	return headlines
}

func sampleQuotes() map[string]types.Quote {
	return map[string]types.Quote{
		"AAPL": {
			Ticker:    "AAPL",
			Price:     192.22,
			ChangeAbs: 1.05,
			ChangePct: 0.55,
			Currency:  "USD",
			AsOf:      time.Date(2026, 8, 28, 20, 0, 0, 0, time.UTC),
			Series: []types.PricePoint{
				{Date: time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC), Close: 190.00},
				{Date: time.Date(2026, 8, 25, 0, 0, 0, 0, time.UTC), Close: 191.17},
				{Date: time.Date(2026, 8, 26, 0, 0, 0, 0, time.UTC), Close: 192.22},
			},
		},
	}
}

func TestComposeContainsFacts(t *testing.T) {
	composer := NewComposer(25000, "")

	p, err := composer.Compose(sampleHeadlines(1), sampleQuotes())
	if err != nil {
		t.Fatalf("Compose returned error: %v", err)
	}

	for _, want := range []string{
		"Dow gains as investors await inflation report",
		"TICKER: AAPL",
		"Latest close: $192.22",
		"Change vs prior day: 0.55%",
		"2026-08-24: 190.00",
		"NEWS:",
		"STOCK_DATA:",
		"Answer:",
	} {
		if !strings.Contains(p.Text, want) {
			t.Errorf("Prompt missing %q", want)
		}
	}
	if p.MaxChars != 25000 {
		t.Errorf("Expected MaxChars 25000, got %d", p.MaxChars)
	}
}

func TestComposeDeterministic(t *testing.T) {
	composer := NewComposer(25000, "")
	headlines := sampleHeadlines(3)
	quotes := sampleQuotes()
	quotes["MSFT"] = types.Quote{Ticker: "MSFT", Price: 430.10, ChangePct: -0.2}
	quotes["GOOG"] = types.Quote{Ticker: "GOOG", Price: 170.55, ChangePct: 1.1}

	first, err := composer.Compose(headlines, quotes)
	if err != nil {
		t.Fatalf("Compose returned error: %v", err)
	}
	for i := 0; i < 10; i++ {
		again, err := composer.Compose(headlines, quotes)
		if err != nil {
			t.Fatalf("Compose returned error: %v", err)
		}
		if again.Text != first.Text {
			t.Fatal("Compose output differs between identical inputs")
		}
	}

	// Tickers appear in sorted order regardless of map iteration
	aapl := strings.Index(first.Text, "TICKER: AAPL")
	goog := strings.Index(first.Text, "TICKER: GOOG")
	msft := strings.Index(first.Text, "TICKER: MSFT")
	if !(aapl < goog && goog < msft) {
		t.Errorf("Expected sorted ticker blocks, got positions %d %d %d", aapl, goog, msft)
	}
}

func TestComposeEmptyHeadlines(t *testing.T) {
	composer := NewComposer(25000, "")

	p, err := composer.Compose(nil, sampleQuotes())
	if err != nil {
		t.Fatalf("Compose returned error: %v", err)
	}
	if !strings.Contains(p.Text, "No significant headlines found.") {
		t.Error("Expected the no-headlines line for an empty headline set")
	}
}

func TestComposeTruncatesWholeRecords(t *testing.T) {
	// Limit tight enough to force dropping headlines but keep the quote
	composer := NewComposer(700, "")
	headlines := sampleHeadlines(5)

	p, err := composer.Compose(headlines, sampleQuotes())
	if err != nil {
		t.Fatalf("Compose returned error: %v", err)
	}

	if len(p.Text) > 700 {
		t.Errorf("Prompt length %d exceeds maximum 700", len(p.Text))
	}
	if !strings.Contains(p.Text, "TICKER: AAPL") {
		t.Error("Quote record must survive truncation")
	}

	// Dropped records leave no partial lines behind: every kept headline
	// line is complete.
	for _, line := range strings.Split(p.Text, "\n") {
		if strings.HasPrefix(line, "- ") && !strings.Contains(line, "(Reuters)") && line != "- No significant headlines found." {
			t.Errorf("Found partially truncated headline line: %q", line)
		}
	}

	// The first (most recent) headline is the last to go
	if strings.Contains(p.Text, "Retail earnings beat expectations") &&
		!strings.Contains(p.Text, "Dow gains as investors await inflation report") {
		t.Error("Truncation dropped newer headlines before older ones")
	}
}

func TestComposeTooLarge(t *testing.T) {
	composer := NewComposer(300, "")

	quotes := sampleQuotes()
	_, err := composer.Compose(nil, quotes)

	var tooLarge *TooLargeError
	if !errors.As(err, &tooLarge) {
		t.Fatalf("Expected *TooLargeError for an irreducible prompt, got %v", err)
	}
	if tooLarge.MaxChars != 300 {
		t.Errorf("Expected MaxChars 300 in error, got %d", tooLarge.MaxChars)
	}
}

func TestComposeLengthNeverExceedsMax(t *testing.T) {
	composer := NewComposer(1200, "")

	for n := 0; n <= 8; n++ {
		p, err := composer.Compose(sampleHeadlines(n), sampleQuotes())
		if err != nil {
			t.Fatalf("Compose(%d headlines) returned error: %v", n, err)
		}
		if len(p.Text) > 1200 {
			t.Errorf("Compose(%d headlines) produced %d chars, over the limit", n, len(p.Text))
		}
	}
}
