package llm

import (
	"context"
	"errors"
	"math/rand"
	"net/http"
	"time"

	"market-summary-bot/internal/api"
	"market-summary-bot/internal/logger"
)

// RetryPolicy bounds the retry loop for LLM calls. Transient failures
// (timeouts, 5xx) are retried with exponential backoff plus jitter; 4xx
// failures are classified and returned immediately.
type RetryPolicy struct {
	MaxRetries  int           // retries after the first attempt
	BaseBackoff time.Duration // first backoff, doubled per retry
}

// classify maps an HTTP failure to the error taxonomy. The bool reports
// whether the failure is transient and worth retrying.
func classify(err error) (error, bool) {
	var statusErr *api.StatusError
	if errors.As(err, &statusErr) {
		switch {
		case statusErr.StatusCode == http.StatusUnauthorized || statusErr.StatusCode == http.StatusForbidden:
			return &AuthError{StatusCode: statusErr.StatusCode}, false
		case statusErr.StatusCode == http.StatusPaymentRequired || statusErr.StatusCode == http.StatusTooManyRequests:
			return &QuotaError{StatusCode: statusErr.StatusCode}, false
		case statusErr.StatusCode >= 500:
			return err, true
		default:
			return err, false
		}
	}
	// Transport errors and per-attempt timeouts are transient. Cancellation
	// of the surrounding context is not; the retry loop also stops on it.
	if errors.Is(err, context.Canceled) {
		return err, false
	}
	return err, true
}

// backoffDelay computes the delay before retry n (0-based) with up to 25%
// random jitter to avoid thundering-herd against the shared endpoint.
func (p RetryPolicy) backoffDelay(retry int) time.Duration {
	delay := p.BaseBackoff
	for i := 0; i < retry; i++ {
		delay *= 2
	}
	jitter := time.Duration(rand.Int63n(int64(delay)/4 + 1))
	return delay + jitter
}

// doWithRetry runs attempt until it succeeds, fails permanently, or the
// retry budget is spent.
func (p RetryPolicy) doWithRetry(ctx context.Context, attempt func(ctx context.Context) error) error {
	attempts := 0
	var lastCause error

	for {
		attempts++
		err := attempt(ctx)
		if err == nil {
			return nil
		}

		classified, transient := classify(err)
		if !transient {
			return classified
		}
		lastCause = classified

		if attempts > p.MaxRetries {
			return &UnavailableError{Attempts: attempts, LastCause: lastCause}
		}

		delay := p.backoffDelay(attempts - 1)
		logger.Warn(ctx, "LLM call failed, retrying",
			"attempt", attempts,
			"max_retries", p.MaxRetries,
			"backoff", delay.String(),
			"error", lastCause,
		)

		select {
		case <-ctx.Done():
			return &UnavailableError{Attempts: attempts, LastCause: ctx.Err()}
		case <-time.After(delay):
		}
	}
}
