package store

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	News struct {
		Provider string `yaml:"provider"` // NEWSAPI or SCRAPE
		Query    string `yaml:"query"`
		PageSize int    `yaml:"page_size"`
		Language string `yaml:"language"`
		Required bool   `yaml:"required"`
		Attempts int    `yaml:"attempts"`
		Endpoint string `yaml:"endpoint"`
	} `yaml:"news"`
	Market struct {
		Provider  string   `yaml:"provider"` // YAHOO, KITE or STATIC
		Tickers   []string `yaml:"tickers"`
		RangeDays int      `yaml:"range_days"`
		Exchange  string   `yaml:"exchange"`
		Endpoint  string   `yaml:"endpoint"`
	} `yaml:"market"`
	Prompt struct {
		MaxChars int `yaml:"max_chars"`
	} `yaml:"prompt"`
	LLM struct {
		Provider       string  `yaml:"provider"` // HF, OPENAI or NOOP
		Model          string  `yaml:"model"`
		MaxTokens      int     `yaml:"max_tokens"`
		Temperature    float32 `yaml:"temperature"`
		System         string  `yaml:"system"`
		Endpoint       string  `yaml:"endpoint"`
		TimeoutSeconds int     `yaml:"timeout_seconds"`
		MaxRetries     int     `yaml:"max_retries"`
		BackoffMS      int     `yaml:"backoff_ms"`
	} `yaml:"llm"`
	Cache struct {
		Enabled    bool `yaml:"enabled"`
		TTLMinutes int  `yaml:"ttl_minutes"`
	} `yaml:"cache"`
	Pipeline struct {
		ConcurrentFetch bool `yaml:"concurrent_fetch"`
	} `yaml:"pipeline"`
	HTTP struct {
		TimeoutSeconds int `yaml:"timeout_seconds"`
	} `yaml:"http"`
	Dashboard struct {
		Listen string `yaml:"listen"`
	} `yaml:"dashboard"`
}

// CacheTTL returns the configured cache TTL as a duration.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.Cache.TTLMinutes) * time.Minute
}

// HTTPTimeout returns the outbound HTTP timeout for data providers.
func (c *Config) HTTPTimeout() time.Duration {
	return time.Duration(c.HTTP.TimeoutSeconds) * time.Second
}

// LLMTimeout returns the per-attempt timeout for LLM calls.
func (c *Config) LLMTimeout() time.Duration {
	return time.Duration(c.LLM.TimeoutSeconds) * time.Second
}

func (c *Config) Validate() error {
	switch c.News.Provider {
	case "NEWSAPI", "SCRAPE":
	default:
		return fmt.Errorf("invalid news.provider '%s': must be 'NEWSAPI' or 'SCRAPE'", c.News.Provider)
	}
	switch c.Market.Provider {
	case "YAHOO", "KITE", "STATIC":
	default:
		return fmt.Errorf("invalid market.provider '%s': must be 'YAHOO', 'KITE' or 'STATIC'", c.Market.Provider)
	}
	switch c.LLM.Provider {
	case "HF", "OPENAI", "NOOP":
	default:
		return fmt.Errorf("invalid llm.provider '%s': must be 'HF', 'OPENAI' or 'NOOP'", c.LLM.Provider)
	}
	if len(c.Market.Tickers) == 0 {
		return errors.New("market.tickers cannot be empty")
	}
	if c.News.PageSize <= 0 || c.News.PageSize > 100 {
		return fmt.Errorf("news.page_size must be between 1-100, got %d", c.News.PageSize)
	}
	if c.Prompt.MaxChars < 256 {
		return fmt.Errorf("prompt.max_chars must be at least 256, got %d", c.Prompt.MaxChars)
	}
	if c.LLM.MaxRetries < 0 {
		return fmt.Errorf("llm.max_retries cannot be negative, got %d", c.LLM.MaxRetries)
	}
	return nil
}

func LoadConfig(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, err
	}

	applyDefaults(&c)

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &c, nil
}

func applyDefaults(c *Config) {
	if c.News.Provider == "" {
		c.News.Provider = "NEWSAPI"
	}
	if c.News.Query == "" {
		c.News.Query = "stock market"
	}
	if c.News.PageSize == 0 {
		c.News.PageSize = 5
	}
	if c.News.Language == "" {
		c.News.Language = "en"
	}
	if c.News.Attempts == 0 {
		c.News.Attempts = 1
	}
	if c.Market.Provider == "" {
		c.Market.Provider = "YAHOO"
	}
	if c.Market.RangeDays == 0 {
		c.Market.RangeDays = 5
	}
	if c.Market.Exchange == "" {
		c.Market.Exchange = "NSE"
	}
	if c.Prompt.MaxChars == 0 {
		c.Prompt.MaxChars = 25000
	}
	if c.LLM.Provider == "" {
		c.LLM.Provider = "NOOP"
	}
	if c.LLM.Model == "" {
		c.LLM.Model = "meta-llama/Meta-Llama-3.1-8B-Instruct"
	}
	if c.LLM.MaxTokens == 0 {
		c.LLM.MaxTokens = 400
	}
	if c.LLM.Temperature == 0 {
		c.LLM.Temperature = 0.6
	}
	if c.LLM.System == "" {
		c.LLM.System = "You are a financial assistant that summarizes market trends."
	}
	if c.LLM.TimeoutSeconds == 0 {
		c.LLM.TimeoutSeconds = 60
	}
	if c.LLM.MaxRetries == 0 {
		c.LLM.MaxRetries = 2
	}
	if c.LLM.BackoffMS == 0 {
		c.LLM.BackoffMS = 1000
	}
	if c.Cache.TTLMinutes == 0 {
		c.Cache.TTLMinutes = 10
	}
	if c.HTTP.TimeoutSeconds == 0 {
		c.HTTP.TimeoutSeconds = 10
	}
	if c.Dashboard.Listen == "" {
		c.Dashboard.Listen = ":8080"
	}

	for i, t := range c.Market.Tickers {
		c.Market.Tickers[i] = strings.ToUpper(strings.TrimSpace(t))
	}
}
