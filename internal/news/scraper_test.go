package news

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

const listingHTML = `<html><body><ul>
<li class="stream-item"><h3>Stocks rally on rate cut hopes</h3><a href="/article-1">read</a></li>
<li class="stream-item"><h3>Bond yields slide</h3><a href="/article-2">read</a></li>
</ul></body></html>`

func listingServer(t *testing.T, hits *atomic.Int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits != nil {
			hits.Add(1)
		}
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(listingHTML))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func testSource(name, baseURL string, rateLimit time.Duration) ScrapeSource {
	return ScrapeSource{
		Name:    name,
		BaseURL: baseURL,
		Selectors: HeadlineSelectors{
			Container: "li.stream-item",
			Title:     "h3",
			URL:       "a",
		},
		RateLimit: rateLimit,
	}
}

func TestScraperExtractsHeadlines(t *testing.T) {
	srv := listingServer(t, nil)
	s := &Scraper{
		sources: []ScrapeSource{testSource("Test", srv.URL, time.Second)},
		timeout: 5 * time.Second,
	}

	headlines, err := s.FetchHeadlines(context.Background(), "finance", 5)
	if err != nil {
		t.Fatalf("FetchHeadlines: %v", err)
	}
	if len(headlines) != 2 {
		t.Fatalf("headlines = %d, want 2", len(headlines))
	}
	if headlines[0].Title != "Stocks rally on rate cut hopes" {
		t.Errorf("Unexpected title %q", headlines[0].Title)
	}
	if headlines[0].URL != srv.URL+"/article-1" {
		t.Errorf("Expected absolute URL, got %q", headlines[0].URL)
	}
}

func TestScraperNoSleepAfterLastSource(t *testing.T) {
	srv := listingServer(t, nil)
	s := &Scraper{
		sources: []ScrapeSource{testSource("Only", srv.URL, 10*time.Second)},
		timeout: 5 * time.Second,
	}

	start := time.Now()
	if _, err := s.FetchHeadlines(context.Background(), "finance", 10); err != nil {
		t.Fatalf("FetchHeadlines: %v", err)
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Fatalf("fetch took %v, rate limit slept after the final source", elapsed)
	}
}

func TestScraperCancelledDuringRateLimit(t *testing.T) {
	first := listingServer(t, nil)
	var secondHits atomic.Int32
	second := listingServer(t, &secondHits)

	s := &Scraper{
		sources: []ScrapeSource{
			testSource("First", first.URL, 10*time.Second),
			testSource("Second", second.URL, 10*time.Second),
		},
		timeout: 5 * time.Second,
	}

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(100 * time.Millisecond)
		cancel()
	}()

	start := time.Now()
	_, err := s.FetchHeadlines(ctx, "finance", 10)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("err = %T, want *FetchError", err)
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Fatalf("cancellation took %v, rate-limit sleep ignored it", elapsed)
	}
	if secondHits.Load() != 0 {
		t.Fatal("second source should not be scraped after cancellation")
	}
}

func TestScraperPreCancelledContext(t *testing.T) {
	var hits atomic.Int32
	srv := listingServer(t, &hits)
	s := &Scraper{
		sources: []ScrapeSource{testSource("Test", srv.URL, time.Second)},
		timeout: 5 * time.Second,
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.FetchHeadlines(ctx, "finance", 5)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if hits.Load() != 0 {
		t.Fatal("no request should be issued on a cancelled context")
	}
}
