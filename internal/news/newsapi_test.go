package news

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newsAPIPayload() string {
	return `{
		"status": "ok",
		"totalResults": 2,
		"articles": [
			{
				"source": {"id": null, "name": "Reuters"},
				"title": "Dow gains as investors await inflation report",
				"url": "https://example.com/dow-gains",
				"publishedAt": "2026-08-28T14:30:00Z"
			},
			{
				"source": {"id": null, "name": "Bloomberg"},
				"title": "Tech stocks rally on chip demand",
				"url": "https://example.com/tech-rally",
				"publishedAt": "2026-08-28T13:00:00Z"
			}
		]
	}`
}

func TestNewsAPIFetchHeadlines(t *testing.T) {
	var gotQuery map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = map[string]string{
			"q":        r.URL.Query().Get("q"),
			"sortBy":   r.URL.Query().Get("sortBy"),
			"pageSize": r.URL.Query().Get("pageSize"),
			"apiKey":   r.URL.Query().Get("apiKey"),
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(newsAPIPayload()))
	}))
	defer srv.Close()

	client := NewNewsAPIClient("test-key", "en", 5*time.Second, WithEndpoint(srv.URL))

	headlines, err := client.FetchHeadlines(context.Background(), "finance", 5)
	if err != nil {
		t.Fatalf("FetchHeadlines returned error: %v", err)
	}

	if len(headlines) != 2 {
		t.Fatalf("Expected 2 headlines, got %d", len(headlines))
	}
	if headlines[0].Title != "Dow gains as investors await inflation report" {
		t.Errorf("Unexpected title: %s", headlines[0].Title)
	}
	if headlines[0].Source != "Reuters" {
		t.Errorf("Expected source Reuters, got %s", headlines[0].Source)
	}
	if headlines[0].PublishedAt.IsZero() {
		t.Error("Expected parsed publish time")
	}

	if gotQuery["q"] != "finance" {
		t.Errorf("Expected query 'finance', got %q", gotQuery["q"])
	}
	if gotQuery["sortBy"] != "publishedAt" {
		t.Errorf("Expected sortBy publishedAt, got %q", gotQuery["sortBy"])
	}
	if gotQuery["pageSize"] != "5" {
		t.Errorf("Expected pageSize 5, got %q", gotQuery["pageSize"])
	}
	if gotQuery["apiKey"] != "test-key" {
		t.Errorf("Expected apiKey to be sent, got %q", gotQuery["apiKey"])
	}
}

func TestNewsAPIFetchHeadlinesHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"status":"error","code":"apiKeyInvalid","message":"bad key"}`))
	}))
	defer srv.Close()

	client := NewNewsAPIClient("bad-key", "en", 5*time.Second, WithEndpoint(srv.URL))

	_, err := client.FetchHeadlines(context.Background(), "finance", 5)
	if err == nil {
		t.Fatal("Expected error on 401 response")
	}

	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("Expected *FetchError, got %T", err)
	}
	if fetchErr.Provider != "NewsAPI" {
		t.Errorf("Expected provider NewsAPI, got %s", fetchErr.Provider)
	}
}

func TestNewsAPIFetchHeadlinesMalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json at all`))
	}))
	defer srv.Close()

	client := NewNewsAPIClient("test-key", "en", 5*time.Second, WithEndpoint(srv.URL))

	_, err := client.FetchHeadlines(context.Background(), "finance", 5)

	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("Expected *FetchError on malformed body, got %v", err)
	}
}

func TestNewsAPIRetriesWithBackoff(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(newsAPIPayload()))
	}))
	defer srv.Close()

	client := NewNewsAPIClient("test-key", "en", 5*time.Second,
		WithEndpoint(srv.URL),
		WithAttempts(2, 10*time.Millisecond))

	headlines, err := client.FetchHeadlines(context.Background(), "finance", 5)
	if err != nil {
		t.Fatalf("Expected success after retry, got %v", err)
	}
	if calls != 2 {
		t.Errorf("Expected 2 attempts, got %d", calls)
	}
	if len(headlines) != 2 {
		t.Errorf("Expected 2 headlines, got %d", len(headlines))
	}
}
