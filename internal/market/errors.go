package market

import "fmt"

// TickerNotFoundError reports an unknown symbol. Collected per ticker so a
// batch fetch can return partial results.
type TickerNotFoundError struct {
	Ticker string
}

func (e *TickerNotFoundError) Error() string {
	return fmt.Sprintf("ticker %s not found", e.Ticker)
}

// FetchError reports a transport-level market data failure.
type FetchError struct {
	Provider string
	Ticker   string
	Err      error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("market data fetch for %s from %s failed: %v", e.Ticker, e.Provider, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}
