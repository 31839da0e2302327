package news

import "fmt"

// FetchError reports a failed news provider call: non-2xx response, timeout
// or malformed body. The caller decides whether to proceed with an empty
// headline set or abort.
type FetchError struct {
	Provider string
	Err      error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("news fetch from %s failed: %v", e.Provider, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}
