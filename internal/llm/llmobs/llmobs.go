package llmobs

import (
	"context"

	"go.opentelemetry.io/otel/attribute"

	"market-summary-bot/internal/interfaces"
	"market-summary-bot/internal/logger"
	"market-summary-bot/internal/trace"
	"market-summary-bot/internal/types"
)

// observableSummarizer wraps a Summarizer with observability (logging & tracing)
type observableSummarizer struct {
	summarizer interfaces.Summarizer
}

// Compile-time interface check
var _ interfaces.Summarizer = (*observableSummarizer)(nil)

// Wrap wraps a summarizer with observability middleware
func Wrap(summarizer interfaces.Summarizer) interfaces.Summarizer {
	return &observableSummarizer{
		summarizer: summarizer,
	}
}

func (os *observableSummarizer) ModelID() string {
	return os.summarizer.ModelID()
}

// Summarize requests a summary with observability. Prompt text is logged
// by size only, never by content.
func (os *observableSummarizer) Summarize(ctx context.Context, prompt types.Prompt) (types.Summary, error) {
	ctx, span := trace.StartSpan(ctx, "llm.Summarize")
	defer span.End()
	trace.SetAttributes(ctx,
		attribute.String("llm.model", os.summarizer.ModelID()),
		attribute.Int("llm.prompt_chars", len(prompt.Text)),
	)

	logger.DebugSkip(ctx, 1, "Requesting summary",
		"model", os.summarizer.ModelID(),
		"prompt_chars", len(prompt.Text),
	)

	summary, err := os.summarizer.Summarize(ctx, prompt)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Failed to get summary", err,
			"model", os.summarizer.ModelID(),
			"prompt_chars", len(prompt.Text),
		)
		return types.Summary{}, err
	}

	logger.InfoSkip(ctx, 1, "Summary received",
		"model", summary.ModelID,
		"summary_chars", len(summary.Text),
	)

	return summary, nil
}
