package pipeline

import "fmt"

// CancelledError reports that a run was interrupted by context cancellation
// or deadline expiry, and records the stage the run had reached.
type CancelledError struct {
	State State
	Err   error
}

func (e *CancelledError) Error() string {
	return fmt.Sprintf("run cancelled during %s: %v", e.State, e.Err)
}

func (e *CancelledError) Unwrap() error { return e.Err }

// NoQuotesError reports that every requested ticker failed to fetch, which
// leaves nothing to summarize.
type NoQuotesError struct {
	Tickers []string
}

func (e *NoQuotesError) Error() string {
	return fmt.Sprintf("no market data available for any of %v", e.Tickers)
}
