package prompt

import (
	"fmt"
	"sort"
	"strings"

	"market-summary-bot/internal/types"
)

// DefaultInstruction is the fixed prompt header. {tickers} is replaced with
// the comma-separated ticker list.
const DefaultInstruction = "You are a concise financial assistant. Given the news and stock data, provide a short market summary " +
	"(3-6 sentences) covering: overall market tone, notable headlines' likely impact, and the stock-specific " +
	"implications for {tickers}. Give one bullet list of 3 action-oriented takeaways for an investor (high level)."

const noHeadlinesLine = "- No significant headlines found."

// TooLargeError reports a prompt that cannot be reduced under the limit:
// even with all droppable records removed the remaining text is too long.
type TooLargeError struct {
	Size     int
	MaxChars int
}

func (e *TooLargeError) Error() string {
	return fmt.Sprintf("prompt of %d chars exceeds maximum %d and cannot be truncated further", e.Size, e.MaxChars)
}

// Composer builds the LLM prompt from headlines and quotes. It does no I/O
// and produces byte-identical output for identical inputs.
type Composer struct {
	maxChars    int
	instruction string
}

// NewComposer creates a composer with the given length limit. An empty
// instruction selects the default template.
func NewComposer(maxChars int, instruction string) *Composer {
	if instruction == "" {
		instruction = DefaultInstruction
	}
	return &Composer{maxChars: maxChars, instruction: instruction}
}

// Compose merges headlines and quotes into a single bounded prompt.
// Truncation drops whole records from the tail: headlines first (providers
// return newest first, so the most recent survive), then quotes down to one.
func (c *Composer) Compose(headlines []types.Headline, quotes map[string]types.Quote) (types.Prompt, error) {
	tickers := make([]string, 0, len(quotes))
	for t := range quotes {
		tickers = append(tickers, t)
	}
	sort.Strings(tickers)

	headlineLines := make([]string, len(headlines))
	for i, h := range headlines {
		headlineLines[i] = headlineLine(h)
	}

	quoteBlocks := make([]string, len(tickers))
	for i, t := range tickers {
		quoteBlocks[i] = quoteBlock(quotes[t])
	}

	keptHeadlines := len(headlineLines)
	keptQuotes := len(quoteBlocks)

	text := c.render(tickers, headlineLines[:keptHeadlines], quoteBlocks[:keptQuotes])
	for len(text) > c.maxChars {
		switch {
		case keptHeadlines > 0:
			keptHeadlines--
		case keptQuotes > 1:
			keptQuotes--
		default:
			return types.Prompt{}, &TooLargeError{Size: len(text), MaxChars: c.maxChars}
		}
		text = c.render(tickers, headlineLines[:keptHeadlines], quoteBlocks[:keptQuotes])
	}

	return types.Prompt{Text: text, MaxChars: c.maxChars}, nil
}

func (c *Composer) render(tickers, headlineLines, quoteBlocks []string) string {
	newsBlock := noHeadlinesLine
	if len(headlineLines) > 0 {
		newsBlock = strings.Join(headlineLines, "\n")
	}

	var b strings.Builder
	b.WriteString(strings.ReplaceAll(c.instruction, "{tickers}", strings.Join(tickers, ", ")))
	b.WriteString("\n\nNEWS:\n")
	b.WriteString(newsBlock)
	b.WriteString("\n\nSTOCK_DATA:\n")
	b.WriteString(strings.Join(quoteBlocks, "\n\n"))
	b.WriteString("\n\nAnswer:")
	return b.String()
}

// headlineLine renders one headline as a single line
func headlineLine(h types.Headline) string {
	when := ""
	if !h.PublishedAt.IsZero() {
		when = h.PublishedAt.UTC().Format("2006-01-02 15:04") + " "
	}
	source := ""
	if h.Source != "" {
		source = fmt.Sprintf(" (%s)", h.Source)
	}
	return fmt.Sprintf("- %s%s%s", when, strings.TrimSpace(h.Title), source)
}

// quoteBlock renders one ticker's stock data as a compact table-like block
func quoteBlock(q types.Quote) string {
	var b strings.Builder
	fmt.Fprintf(&b, "TICKER: %s\n", q.Ticker)
	fmt.Fprintf(&b, "Latest close: %s%.2f\n", currencySymbol(q.Currency), q.Price)
	fmt.Fprintf(&b, "Change vs prior day: %.2f%%", q.ChangePct)

	if len(q.Series) >= 2 {
		first := q.Series[0].Close
		last := q.Series[len(q.Series)-1].Close
		periodPct := 0.0
		if first != 0 {
			periodPct = (last - first) / first * 100
		}
		fmt.Fprintf(&b, "\nChange over period: %.2f%% (%s)", periodPct, trendWord(periodPct))
		b.WriteString("\nRecent closes:")
		for _, p := range q.Series {
			fmt.Fprintf(&b, "\n%s: %.2f", p.Date.UTC().Format("2006-01-02"), p.Close)
		}
	}
	return b.String()
}

func trendWord(pct float64) string {
	switch {
	case pct > 0:
		return "up"
	case pct < 0:
		return "down"
	default:
		return "flat"
	}
}

func currencySymbol(currency string) string {
	switch currency {
	case "", "USD":
		return "$"
	case "EUR":
		return "€"
	case "GBP":
		return "£"
	case "INR":
		return "₹"
	default:
		return currency + " "
	}
}
