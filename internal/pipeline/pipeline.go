package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"market-summary-bot/internal/interfaces"
	"market-summary-bot/internal/logger"
	"market-summary-bot/internal/market"
	"market-summary-bot/internal/runlog"
	"market-summary-bot/internal/store"
	"market-summary-bot/internal/trace"
	"market-summary-bot/internal/types"
)

// State names the stage a run is currently in. Transitions are strictly
// forward: Idle, FetchingNews, FetchingMarket, Composing, Summarizing, then
// Done or Failed.
type State string

const (
	StateIdle           State = "idle"
	StateFetchingNews   State = "fetching_news"
	StateFetchingMarket State = "fetching_market"
	StateComposing      State = "composing"
	StateSummarizing    State = "summarizing"
	StateDone           State = "done"
	StateFailed         State = "failed"
)

// NewsSource yields headlines for a query.
type NewsSource interface {
	FetchHeadlines(ctx context.Context, query string, pageSize int) ([]types.Headline, error)
}

// MarketSource yields quotes for a set of tickers.
type MarketSource interface {
	FetchQuotes(ctx context.Context, tickers []string, rng *types.DateRange) (market.QuoteBatch, error)
}

// Composer renders headlines and quotes into an LLM prompt.
type Composer interface {
	Compose(headlines []types.Headline, quotes map[string]types.Quote) (types.Prompt, error)
}

// Request describes one summary run.
type Request struct {
	Query   string
	Tickers []string
	Range   *types.DateRange
}

// Result carries everything a run produced, including partial outputs when
// the run failed partway through.
type Result struct {
	RunID     string
	State     State
	Headlines []types.Headline
	Quotes    map[string]types.Quote
	// QuoteErrors holds per-ticker fetch failures that did not abort the run.
	QuoteErrors map[string]error
	Prompt      types.Prompt
	Summary     types.Summary
	Err         error
}

// Orchestrator drives one run through the fetch, compose and summarize
// stages. It is safe for concurrent use as long as its sources are.
type Orchestrator struct {
	news       NewsSource
	market     MarketSource
	composer   Composer
	summarizer interfaces.Summarizer
	cfg        *store.Config

	// OnStage, when set, is invoked on every state transition. Used by the
	// CLI to print progress lines.
	OnStage func(State)
}

func New(news NewsSource, mkt MarketSource, composer Composer, summarizer interfaces.Summarizer, cfg *store.Config) *Orchestrator {
	return &Orchestrator{
		news:       news,
		market:     mkt,
		composer:   composer,
		summarizer: summarizer,
		cfg:        cfg,
	}
}

// Run executes a full summary cycle. The returned Result is non-nil even on
// failure so callers can inspect how far the run got.
func (o *Orchestrator) Run(ctx context.Context, req Request) (*Result, error) {
	start := time.Now()
	res := &Result{
		RunID: uuid.NewString(),
		State: StateIdle,
	}
	ctx, span := trace.StartSpan(ctx, "pipeline.Run")
	defer span.End()

	err := o.run(ctx, req, res)
	duration := time.Since(start).Milliseconds()
	if err != nil {
		res.State = StateFailed
		res.Err = err
	} else {
		res.State = StateDone
	}

	logger.Run(ctx, res.RunID, string(res.State), duration,
		"query", req.Query,
		"tickers", req.Tickers,
		"headlines", len(res.Headlines),
	)
	o.record(res, req, duration)

	return res, err
}

func (o *Orchestrator) run(ctx context.Context, req Request, res *Result) error {
	if len(req.Tickers) == 0 {
		return fmt.Errorf("at least one ticker is required")
	}

	if o.cfg.Pipeline.ConcurrentFetch {
		if err := o.fetchConcurrent(ctx, req, res); err != nil {
			return err
		}
	} else {
		if err := o.fetchSequential(ctx, req, res); err != nil {
			return err
		}
	}

	if err := o.advance(ctx, res, StateComposing); err != nil {
		return err
	}
	p, err := o.composer.Compose(res.Headlines, res.Quotes)
	if err != nil {
		return err
	}
	res.Prompt = p

	if err := o.advance(ctx, res, StateSummarizing); err != nil {
		return err
	}
	summary, err := o.summarizer.Summarize(ctx, p)
	if err != nil {
		if ctx.Err() != nil {
			return &CancelledError{State: StateSummarizing, Err: ctx.Err()}
		}
		return err
	}
	res.Summary = summary
	return nil
}

func (o *Orchestrator) fetchSequential(ctx context.Context, req Request, res *Result) error {
	if err := o.advance(ctx, res, StateFetchingNews); err != nil {
		return err
	}
	if err := o.fetchNews(ctx, req, res); err != nil {
		return err
	}

	if err := o.advance(ctx, res, StateFetchingMarket); err != nil {
		return err
	}
	return o.fetchMarket(ctx, req, res)
}

// fetchConcurrent overlaps the two independent fetches. Both fetch stages
// are announced so callers watching OnStage see the same transitions as the
// sequential path; the market fetch is the compose-side join point.
func (o *Orchestrator) fetchConcurrent(ctx context.Context, req Request, res *Result) error {
	if err := o.advance(ctx, res, StateFetchingNews); err != nil {
		return err
	}

	newsErr := make(chan error, 1)
	go func() {
		newsErr <- o.fetchNews(ctx, req, res)
	}()

	if err := o.advance(ctx, res, StateFetchingMarket); err != nil {
		<-newsErr
		return err
	}
	marketErr := o.fetchMarket(ctx, req, res)
	nErr := <-newsErr

	if marketErr != nil {
		return marketErr
	}
	return nErr
}

func (o *Orchestrator) fetchNews(ctx context.Context, req Request, res *Result) error {
	headlines, err := o.news.FetchHeadlines(ctx, req.Query, o.cfg.News.PageSize)
	if err != nil {
		if ctx.Err() != nil {
			return &CancelledError{State: StateFetchingNews, Err: ctx.Err()}
		}
		if o.cfg.News.Required {
			return err
		}
		// The prompt renders a placeholder when no headlines are present,
		// so a news outage degrades the summary instead of aborting it.
		logger.ErrorWithErr(ctx, "news fetch failed, continuing without headlines", err)
		res.Headlines = nil
		return nil
	}
	res.Headlines = headlines
	return nil
}

func (o *Orchestrator) fetchMarket(ctx context.Context, req Request, res *Result) error {
	batch, err := o.market.FetchQuotes(ctx, req.Tickers, req.Range)
	if err != nil {
		if ctx.Err() != nil {
			return &CancelledError{State: StateFetchingMarket, Err: ctx.Err()}
		}
		return err
	}
	res.Quotes = batch.Quotes
	res.QuoteErrors = batch.Errors
	for ticker, terr := range batch.Errors {
		logger.Warn(ctx, "ticker fetch failed", "ticker", ticker, "error", terr.Error())
	}
	if len(batch.Quotes) == 0 {
		return &NoQuotesError{Tickers: req.Tickers}
	}
	return nil
}

// advance moves the run to the next stage, honoring cancellation at each
// boundary so a cancelled run never starts further remote calls.
func (o *Orchestrator) advance(ctx context.Context, res *Result, next State) error {
	select {
	case <-ctx.Done():
		return &CancelledError{State: res.State, Err: ctx.Err()}
	default:
	}
	logger.Debug(ctx, "stage transition", "run_id", res.RunID, "from", string(res.State), "to", string(next))
	res.State = next
	if o.OnStage != nil {
		o.OnStage(next)
	}
	return nil
}

func (o *Orchestrator) record(res *Result, req Request, durationMS int64) {
	entry := runlog.Entry{
		RunID:       res.RunID,
		Query:       req.Query,
		Tickers:     req.Tickers,
		Headlines:   len(res.Headlines),
		PromptChars: len(res.Prompt.Text),
		Model:       o.summarizer.ModelID(),
		State:       string(res.State),
		DurationMS:  durationMS,
	}
	if res.Err != nil {
		entry.Error = res.Err.Error()
	}
	if err := runlog.Append(entry); err != nil {
		logger.Warn(context.Background(), "run log append failed", "error", err.Error())
	}
}
