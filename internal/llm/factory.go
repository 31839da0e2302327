package llm

import (
	"os"

	"market-summary-bot/internal/interfaces"
	"market-summary-bot/internal/store"
)

// NewSummarizer builds the configured summarizer. Falls back to noop when
// the selected provider's credential is missing, so a bare checkout still
// runs end to end.
func NewSummarizer(cfg *store.Config) interfaces.Summarizer {
	switch cfg.LLM.Provider {
	case "HF":
		if token := os.Getenv("HF_TOKEN"); token != "" {
			return NewHFSummarizer(cfg, token)
		}
	case "OPENAI":
		if apiKey := os.Getenv("OPENAI_API_KEY"); apiKey != "" {
			return NewOpenAISummarizer(cfg, apiKey)
		}
	}
	return NewNoopSummarizer()
}
