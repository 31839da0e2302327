package news

import (
	"context"
	"fmt"
	"sync"
	"time"

	"market-summary-bot/internal/interfaces"
	"market-summary-bot/internal/logger"
	"market-summary-bot/internal/store"
	"market-summary-bot/internal/types"
)

// Service wraps a news provider with a read-through TTL cache keyed by
// query. Repeated dashboard interactions hit the cache instead of the
// provider; entries are immutable and simply expire.
type Service struct {
	provider interfaces.NewsProvider
	cache    *headlineCache
	caching  bool
}

var _ interfaces.NewsProvider = (*Service)(nil)

// NewService creates a cached news service around the given provider
func NewService(provider interfaces.NewsProvider, ttl time.Duration, caching bool) *Service {
	return &Service{
		provider: provider,
		cache:    newHeadlineCache(ttl),
		caching:  caching,
	}
}

// NewProvider builds the configured news provider. The API key comes from
// the caller, not from ambient globals.
func NewProvider(cfg *store.Config, apiKey string) interfaces.NewsProvider {
	switch cfg.News.Provider {
	case "SCRAPE":
		return NewScraper(cfg.HTTPTimeout())
	default:
		return NewNewsAPIClient(apiKey, cfg.News.Language, cfg.HTTPTimeout(),
			WithEndpoint(cfg.News.Endpoint),
			WithAttempts(cfg.News.Attempts, 2*time.Second))
	}
}

func (s *Service) Name() string {
	return s.provider.Name()
}

// FetchHeadlines returns cached headlines when a fresh entry exists,
// otherwise delegates to the provider and stores the result.
func (s *Service) FetchHeadlines(ctx context.Context, query string, pageSize int) ([]types.Headline, error) {
	key := cacheKey(query, pageSize)

	if s.caching {
		if cached, ok := s.cache.get(key); ok {
			logger.Debug(ctx, "Using cached headlines", "query", query, "count", len(cached))
			return cached, nil
		}
	}

	headlines, err := s.provider.FetchHeadlines(ctx, query, pageSize)
	if err != nil {
		return nil, err
	}

	if s.caching {
		s.cache.set(key, headlines)
	}
	return headlines, nil
}

func cacheKey(query string, pageSize int) string {
	return fmt.Sprintf("%s|%d", query, pageSize)
}

// headlineCache stores fetched headlines temporarily
type headlineCache struct {
	mu   sync.RWMutex
	data map[string]*headlineEntry
	ttl  time.Duration
}

type headlineEntry struct {
	headlines []types.Headline
	timestamp time.Time
}

func newHeadlineCache(ttl time.Duration) *headlineCache {
	cache := &headlineCache{
		data: make(map[string]*headlineEntry),
		ttl:  ttl,
	}

	go cache.cleanupLoop()

	return cache
}

func (c *headlineCache) get(key string) ([]types.Headline, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, exists := c.data[key]
	if !exists {
		return nil, false
	}
	if time.Since(entry.timestamp) > c.ttl {
		return nil, false
	}
	return entry.headlines, true
}

func (c *headlineCache) set(key string, headlines []types.Headline) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.data[key] = &headlineEntry{
		headlines: headlines,
		timestamp: time.Now(),
	}
}

func (c *headlineCache) cleanupLoop() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		c.cleanup()
	}
}

func (c *headlineCache) cleanup() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	for key, entry := range c.data {
		if now.Sub(entry.timestamp) > c.ttl {
			delete(c.data, key)
		}
	}
}
