package llm

import (
	"context"
	"time"

	"market-summary-bot/internal/api"
	"market-summary-bot/internal/interfaces"
	"market-summary-bot/internal/store"
	"market-summary-bot/internal/types"
)

const defaultHFEndpoint = "https://router.huggingface.co/v1/chat/completions"

// HFSummarizer sends prompts to the Hugging Face inference router.
type HFSummarizer struct {
	chat *chatClient
}

var _ interfaces.Summarizer = (*HFSummarizer)(nil)

// NewHFSummarizer creates a Hugging Face backed summarizer. The token is
// injected by the caller and never logged.
func NewHFSummarizer(cfg *store.Config, token string) *HFSummarizer {
	endpoint := defaultHFEndpoint
	if cfg.LLM.Endpoint != "" {
		endpoint = cfg.LLM.Endpoint
	}
	return &HFSummarizer{
		chat: &chatClient{
			client:      api.NewClient(api.WithTimeout(cfg.LLMTimeout()), api.WithLogging(true)),
			endpoint:    endpoint,
			token:       token,
			model:       cfg.LLM.Model,
			system:      cfg.LLM.System,
			maxTokens:   cfg.LLM.MaxTokens,
			temperature: cfg.LLM.Temperature,
			timeout:     cfg.LLMTimeout(),
			policy: RetryPolicy{
				MaxRetries:  cfg.LLM.MaxRetries,
				BaseBackoff: time.Duration(cfg.LLM.BackoffMS) * time.Millisecond,
			},
		},
	}
}

func (s *HFSummarizer) ModelID() string {
	return s.chat.model
}

// Summarize sends the prompt to the router and returns the generated text.
func (s *HFSummarizer) Summarize(ctx context.Context, prompt types.Prompt) (types.Summary, error) {
	return s.chat.summarize(ctx, prompt)
}
