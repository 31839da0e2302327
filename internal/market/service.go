package market

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"market-summary-bot/internal/interfaces"
	"market-summary-bot/internal/logger"
	"market-summary-bot/internal/store"
	"market-summary-bot/internal/types"
)

// QuoteBatch is the result of a multi-ticker fetch. Every requested ticker
// appears either in Quotes or in Errors, so len(Quotes)+len(Errors) equals
// the number of requested tickers.
type QuoteBatch struct {
	Quotes map[string]types.Quote
	Errors map[string]error
}

// Tickers returns the successfully quoted tickers in sorted order.
func (b QuoteBatch) Tickers() []string {
	tickers := make([]string, 0, len(b.Quotes))
	for t := range b.Quotes {
		tickers = append(tickers, t)
	}
	sort.Strings(tickers)
	return tickers
}

// Service fetches quotes per ticker through a provider, collecting
// per-ticker errors instead of aborting the batch. Results are served from
// a read-through TTL cache keyed by (ticker set, range).
type Service struct {
	provider interfaces.MarketProvider
	cache    *quoteCache
	caching  bool
}

// NewService creates a cached market data service around the given provider
func NewService(provider interfaces.MarketProvider, ttl time.Duration, caching bool) *Service {
	return &Service{
		provider: provider,
		cache:    newQuoteCache(ttl),
		caching:  caching,
	}
}

// NewProvider builds the configured market data provider. Kite credentials
// come from the environment in the same way the rest of the secrets do.
func NewProvider(cfg *store.Config) interfaces.MarketProvider {
	switch cfg.Market.Provider {
	case "KITE":
		return NewKiteClient(os.Getenv("KITE_API_KEY"), os.Getenv("KITE_ACCESS_TOKEN"), cfg.Market.Exchange)
	case "STATIC":
		return NewStaticClient()
	default:
		return NewYahooClient(cfg.HTTPTimeout(), WithYahooEndpoint(cfg.Market.Endpoint))
	}
}

func (s *Service) Name() string {
	return s.provider.Name()
}

// FetchQuotes resolves every ticker in the set. Unknown tickers and
// transport failures are reported per ticker; the rest of the batch still
// succeeds. The only batch-level failure is context cancellation.
func (s *Service) FetchQuotes(ctx context.Context, tickers []string, rng *types.DateRange) (QuoteBatch, error) {
	key := batchKey(tickers, rng)

	if s.caching {
		if cached, ok := s.cache.get(key); ok {
			logger.Debug(ctx, "Using cached quotes", "tickers", tickers)
			return cached, nil
		}
	}

	timer := logger.StartOperation(ctx, "market.FetchQuotes", "tickers", len(tickers))
	ctx = timer.GetContext()

	batch := QuoteBatch{
		Quotes: make(map[string]types.Quote, len(tickers)),
		Errors: make(map[string]error),
	}

	for _, ticker := range tickers {
		if err := ctx.Err(); err != nil {
			timer.EndWithError(err)
			return batch, err
		}

		quote, err := s.provider.FetchQuote(ctx, ticker, rng)
		if err != nil {
			batch.Errors[ticker] = err
			continue
		}
		batch.Quotes[ticker] = quote
	}

	// Only fully successful batches are cached; a transient per-ticker
	// failure should not be pinned for the TTL.
	if s.caching && len(batch.Errors) == 0 {
		s.cache.set(key, batch)
	}
	timer.End("quotes", len(batch.Quotes), "failed", len(batch.Errors))
	return batch, nil
}

func batchKey(tickers []string, rng *types.DateRange) string {
	sorted := make([]string, len(tickers))
	copy(sorted, tickers)
	sort.Strings(sorted)

	key := strings.Join(sorted, ",")
	if rng != nil {
		key += fmt.Sprintf("|%d-%d", rng.From.Unix(), rng.To.Unix())
	}
	return key
}

// quoteCache stores quote batches temporarily
type quoteCache struct {
	mu   sync.RWMutex
	data map[string]*quoteEntry
	ttl  time.Duration
}

type quoteEntry struct {
	batch     QuoteBatch
	timestamp time.Time
}

func newQuoteCache(ttl time.Duration) *quoteCache {
	cache := &quoteCache{
		data: make(map[string]*quoteEntry),
		ttl:  ttl,
	}

	go cache.cleanupLoop()

	return cache
}

func (c *quoteCache) get(key string) (QuoteBatch, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, exists := c.data[key]
	if !exists {
		return QuoteBatch{}, false
	}
	if time.Since(entry.timestamp) > c.ttl {
		return QuoteBatch{}, false
	}
	return entry.batch, true
}

func (c *quoteCache) set(key string, batch QuoteBatch) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.data[key] = &quoteEntry{
		batch:     batch,
		timestamp: time.Now(),
	}
}

func (c *quoteCache) cleanupLoop() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		c.cleanup()
	}
}

func (c *quoteCache) cleanup() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	for key, entry := range c.data {
		if now.Sub(entry.timestamp) > c.ttl {
			delete(c.data, key)
		}
	}
}
