package llm

import (
	"context"
	"time"

	"market-summary-bot/internal/api"
	"market-summary-bot/internal/interfaces"
	"market-summary-bot/internal/store"
	"market-summary-bot/internal/types"
)

const defaultOpenAIEndpoint = "https://api.openai.com/v1/chat/completions"

// OpenAISummarizer sends prompts to the OpenAI chat completions API.
type OpenAISummarizer struct {
	chat *chatClient
}

var _ interfaces.Summarizer = (*OpenAISummarizer)(nil)

func NewOpenAISummarizer(cfg *store.Config, apiKey string) *OpenAISummarizer {
	endpoint := defaultOpenAIEndpoint
	if cfg.LLM.Endpoint != "" {
		endpoint = cfg.LLM.Endpoint
	}
	return &OpenAISummarizer{
		chat: &chatClient{
			client:      api.NewClient(api.WithTimeout(cfg.LLMTimeout()), api.WithLogging(true)),
			endpoint:    endpoint,
			token:       apiKey,
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

func (s *OpenAISummarizer) ModelID() string {
	return s.chat.model
}

func (s *OpenAISummarizer) Summarize(ctx context.Context, prompt types.Prompt) (types.Summary, error) {
	return s.chat.summarize(ctx, prompt)
}
