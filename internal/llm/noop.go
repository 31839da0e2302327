package llm

import (
	"context"
	"time"

	"market-summary-bot/internal/interfaces"
	"market-summary-bot/internal/types"
)

// NoopSummarizer returns canned text without any network call. Used when
// no LLM provider or credential is configured.
type NoopSummarizer struct{}

var _ interfaces.Summarizer = (*NoopSummarizer)(nil)

func NewNoopSummarizer() *NoopSummarizer {
	return &NoopSummarizer{}
}

func (s *NoopSummarizer) ModelID() string {
	return "noop"
}

func (s *NoopSummarizer) Summarize(ctx context.Context, prompt types.Prompt) (types.Summary, error) {
	return types.Summary{
		Text:        "No LLM provider configured. Set llm.provider and the matching API token to generate a market summary.",
		ModelID:     s.ModelID(),
		GeneratedAt: time.Now().UTC(),
	}, nil
}
