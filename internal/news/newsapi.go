package news

import (
	"context"
	"fmt"
	"time"

	"market-summary-bot/internal/api"
	"market-summary-bot/internal/logger"
	"market-summary-bot/internal/types"
)

const defaultNewsAPIEndpoint = "https://newsapi.org/v2/everything"

// NewsAPIClient fetches headlines from newsapi.org, newest first.
type NewsAPIClient struct {
	client   *api.Client
	apiKey   string
	language string
	endpoint string
	attempts int
	backoff  time.Duration
}

// NewsAPIOption configures the client
type NewsAPIOption func(*NewsAPIClient)

// WithEndpoint overrides the NewsAPI endpoint
func WithEndpoint(endpoint string) NewsAPIOption {
	return func(c *NewsAPIClient) {
		if endpoint != "" {
			c.endpoint = endpoint
		}
	}
}

// WithAttempts sets the number of fetch attempts with fixed backoff between
// them. A single attempt is the default.
func WithAttempts(n int, backoff time.Duration) NewsAPIOption {
	return func(c *NewsAPIClient) {
		if n > 0 {
			c.attempts = n
		}
		c.backoff = backoff
	}
}

// WithHTTPClient replaces the underlying API client (tests)
func WithHTTPClient(client *api.Client) NewsAPIOption {
	return func(c *NewsAPIClient) {
		c.client = client
	}
}

// NewNewsAPIClient creates a NewsAPI-backed provider. The key is injected by
// the caller and never logged.
func NewNewsAPIClient(apiKey, language string, timeout time.Duration, opts ...NewsAPIOption) *NewsAPIClient {
	c := &NewsAPIClient{
		client:   api.NewClient(api.WithTimeout(timeout), api.WithLogging(true)),
		apiKey:   apiKey,
		language: language,
		endpoint: defaultNewsAPIEndpoint,
		attempts: 1,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *NewsAPIClient) Name() string {
	return "NewsAPI"
}

// FetchHeadlines queries the everything endpoint sorted by publish time.
func (c *NewsAPIClient) FetchHeadlines(ctx context.Context, query string, pageSize int) ([]types.Headline, error) {
	var lastErr error
	for attempt := 0; attempt < c.attempts; attempt++ {
		if attempt > 0 {
			logger.Warn(ctx, "Retrying news fetch", "provider", c.Name(), "attempt", attempt+1)
			select {
			case <-ctx.Done():
				return nil, &FetchError{Provider: c.Name(), Err: ctx.Err()}
			case <-time.After(c.backoff):
			}
		}

		headlines, err := c.fetchOnce(ctx, query, pageSize)
		if err == nil {
			return headlines, nil
		}
		lastErr = err
	}
	return nil, &FetchError{Provider: c.Name(), Err: lastErr}
}

func (c *NewsAPIClient) fetchOnce(ctx context.Context, query string, pageSize int) ([]types.Headline, error) {
	req := api.NewRequest("GET", c.endpoint).
		WithContext(ctx).
		WithQuery("q", query).
		WithQuery("sortBy", "publishedAt").
		WithQuery("language", c.language).
		WithQuery("pageSize", fmt.Sprintf("%d", pageSize)).
		WithQuery("apiKey", c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}

	var raw newsAPIResponse
	if err := resp.ParseJSON(&raw); err != nil {
		return nil, err
	}
	if raw.Status != "ok" {
		return nil, fmt.Errorf("newsapi status %q: %s", raw.Status, raw.Message)
	}

	headlines := make([]types.Headline, 0, len(raw.Articles))
	for _, a := range raw.Articles {
		if a.Title == "" {
			continue
		}
		publishedAt, err := time.Parse(time.RFC3339, a.PublishedAt)
		if err != nil {
			publishedAt = time.Time{}
		}
		headlines = append(headlines, types.Headline{
			Title:       a.Title,
			Source:      a.Source.Name,
			URL:         a.URL,
			PublishedAt: publishedAt,
		})
	}
	return headlines, nil
}

type newsAPIResponse struct {
	Status   string `json:"status"`
	Message  string `json:"message"`
	Articles []struct {
		Source struct {
			Name string `json:"name"`
		} `json:"source"`
		Title       string `json:"title"`
		URL         string `json:"url"`
		PublishedAt string `json:"publishedAt"`
	} `json:"articles"`
}
