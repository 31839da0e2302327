package news

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly/v2"

	"market-summary-bot/internal/logger"
	"market-summary-bot/internal/types"
)

// Scraper is a keyless news provider that scrapes public finance-news
// listings. It is the fallback when no NewsAPI key is available.
type Scraper struct {
	sources []ScrapeSource
	timeout time.Duration
}

// ScrapeSource defines one scrapeable news listing
type ScrapeSource struct {
	Name       string
	BaseURL    string
	SearchPath string // e.g. "/search?q={query}"
	Selectors  HeadlineSelectors
	RateLimit  time.Duration
}

// HeadlineSelectors defines CSS selectors for extracting headline data
type HeadlineSelectors struct {
	Container string
	Title     string
	URL       string
}

// NewScraper creates a scraper with the default source list
func NewScraper(timeout time.Duration) *Scraper {
	return &Scraper{
		sources: defaultScrapeSources(),
		timeout: timeout,
	}
}

func defaultScrapeSources() []ScrapeSource {
	return []ScrapeSource{
		{
			Name:       "YahooFinance",
			BaseURL:    "https://finance.yahoo.com",
			SearchPath: "/topic/stock-market-news/",
			Selectors: HeadlineSelectors{
				Container: "li.stream-item",
				Title:     "h3",
				URL:       "a",
			},
			RateLimit: 2 * time.Second,
		},
		{
			Name:       "CNBC",
			BaseURL:    "https://www.cnbc.com",
			SearchPath: "/markets/",
			Selectors: HeadlineSelectors{
				Container: "div.Card-titleContainer",
				Title:     "a",
				URL:       "a",
			},
			RateLimit: 2 * time.Second,
		},
	}
}

func (s *Scraper) Name() string {
	return "Scrape"
}

// FetchHeadlines scrapes up to pageSize headlines across the configured
// sources. The query filters headlines by substring match since listing
// pages are not searchable without an API.
func (s *Scraper) FetchHeadlines(ctx context.Context, query string, pageSize int) ([]types.Headline, error) {
	perSource := pageSize / len(s.sources)
	if perSource < 1 {
		perSource = 1
	}

	all := []types.Headline{}
	var lastErr error
	for i, source := range s.sources {
		if err := ctx.Err(); err != nil {
			return nil, &FetchError{Provider: s.Name(), Err: err}
		}

		headlines, err := s.scrapeSource(ctx, source, query, perSource)
		if err != nil {
			logger.ErrorWithErr(ctx, "Failed to scrape source", err, "source", source.Name)
			lastErr = err
			continue
		}
		all = append(all, headlines...)
		if logger.IsDebugEnabled() {
			logger.Debug(ctx, "Source scraped", "source", source.Name, "headlines", len(headlines))
		}
		if len(all) >= pageSize {
			break
		}

		// Rate limiting between sources, skipped after the last one
		if i < len(s.sources)-1 {
			select {
			case <-ctx.Done():
				return nil, &FetchError{Provider: s.Name(), Err: ctx.Err()}
			case <-time.After(source.RateLimit):
			}
		}
	}

	if len(all) == 0 && lastErr != nil {
		return nil, &FetchError{Provider: s.Name(), Err: lastErr}
	}
	if len(all) > pageSize {
		all = all[:pageSize]
	}
	return all, nil
}

func (s *Scraper) scrapeSource(ctx context.Context, source ScrapeSource, query string, max int) ([]types.Headline, error) {
	headlines := []types.Headline{}
	fetchedAt := time.Now()

	c := colly.NewCollector(
		colly.AllowedDomains(hostOf(source.BaseURL)),
		colly.MaxDepth(1),
		colly.Async(false),
	)
	c.SetRequestTimeout(s.timeout)

	c.OnRequest(func(r *colly.Request) {
		r.Headers.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
	})

	c.OnHTML(source.Selectors.Container, func(e *colly.HTMLElement) {
		if len(headlines) >= max {
			return
		}

		title, href := extractHeadline(e.DOM, source.Selectors)
		if title == "" || href == "" {
			return
		}
		if !matchesQuery(title, query) {
			return
		}
		if !strings.HasPrefix(href, "http") {
			href = source.BaseURL + href
		}

		headlines = append(headlines, types.Headline{
			Title:       title,
			Source:      source.Name,
			URL:         href,
			PublishedAt: fetchedAt,
		})
	})

	var visitErr error
	c.OnError(func(r *colly.Response, err error) {
		visitErr = err
	})

	if err := c.Visit(source.BaseURL + source.SearchPath); err != nil {
		return nil, err
	}
	c.Wait()

	if visitErr != nil && len(headlines) == 0 {
		return nil, visitErr
	}
	return headlines, nil
}

// extractHeadline pulls title and link out of a listing item
func extractHeadline(sel *goquery.Selection, selectors HeadlineSelectors) (title, href string) {
	title = strings.TrimSpace(sel.Find(selectors.Title).First().Text())
	href, _ = sel.Find(selectors.URL).First().Attr("href")
	return title, href
}

// matchesQuery does a case-insensitive substring match. Generic market
// queries match everything so listing pages stay useful.
func matchesQuery(title, query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" || q == "stock market" || q == "finance" {
		return true
	}
	for _, term := range strings.Fields(q) {
		if strings.Contains(strings.ToLower(title), term) {
			return true
		}
	}
	return false
}

func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return u.Hostname()
}
