package types

import "time"

// Headline is a single news article record. Immutable once fetched.
type Headline struct {
	Title       string    `json:"title"`
	Source      string    `json:"source"`
	URL         string    `json:"url"`
	PublishedAt time.Time `json:"published_at"`
}

// PricePoint is one entry of a historical close series.
type PricePoint struct {
	Date  time.Time `json:"date"`
	Close float64   `json:"close"`
}

// Quote is the latest price/change data for one ticker. AsOf carries the
// provider timestamp so callers can judge staleness themselves.
type Quote struct {
	Ticker    string       `json:"ticker"`
	Price     float64      `json:"price"`
	ChangeAbs float64      `json:"change_abs"`
	ChangePct float64      `json:"change_pct"`
	Currency  string       `json:"currency,omitempty"`
	AsOf      time.Time    `json:"as_of"`
	Series    []PricePoint `json:"series,omitempty"`
}

// DateRange bounds a historical series request.
type DateRange struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

// Days returns the span of the range in whole days, minimum 1.
func (r DateRange) Days() int {
	d := int(r.To.Sub(r.From).Hours() / 24)
	if d < 1 {
		return 1
	}
	return d
}

// Prompt is the composed natural-language text sent to the LLM.
// Built once per request cycle, never mutated.
type Prompt struct {
	Text     string `json:"text"`
	MaxChars int    `json:"max_chars"`
}

// Summary is the LLM-generated market commentary, the terminal artifact of
// the pipeline.
type Summary struct {
	Text        string    `json:"text"`
	ModelID     string    `json:"model_id"`
	GeneratedAt time.Time `json:"generated_at"`
}
