package interfaces

import (
	"context"

	"market-summary-bot/internal/types"
)

type Summarizer interface {
	Summarize(ctx context.Context, prompt types.Prompt) (types.Summary, error)
	ModelID() string
}
