package llm

import "fmt"

// AuthError reports a credential failure (401/403). Never retried.
type AuthError struct {
	StatusCode int
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("LLM endpoint rejected credentials (HTTP %d)", e.StatusCode)
}

// QuotaError reports an exhausted quota or rate limit (402/429). Never
// retried; retrying against a shared endpoint only makes it worse.
type QuotaError struct {
	StatusCode int
}

func (e *QuotaError) Error() string {
	return fmt.Sprintf("LLM quota exceeded (HTTP %d)", e.StatusCode)
}

// UnavailableError reports exhausted retries against a transiently failing
// endpoint, carrying the last cause.
type UnavailableError struct {
	Attempts  int
	LastCause error
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("LLM endpoint unavailable after %d attempts: %v", e.Attempts, e.LastCause)
}

func (e *UnavailableError) Unwrap() error {
	return e.LastCause
}
