package interfaces

import (
	"context"

	"market-summary-bot/internal/types"
)

type NewsProvider interface {
	FetchHeadlines(ctx context.Context, query string, pageSize int) ([]types.Headline, error)
	Name() string
}
