package domain

import (
	"fmt"
	"strings"
)

// ValidationError reports an incomplete or invalid user selection. It aborts
// the whole fetch before any network call is made.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid selection: %s: %s", e.Field, e.Reason)
}

// HTTPError reports an upstream non-success status or a network-level
// failure. Status is 0 when the request never produced a response.
type HTTPError struct {
	Source string
	Status int
	Err    error
}

func (e *HTTPError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("%s request failed: %v", e.Source, e.Err)
	}
	return fmt.Sprintf("%s returned status %d", e.Source, e.Status)
}

func (e *HTTPError) Unwrap() error { return e.Err }

// ResponseShapeError reports an upstream payload that does not match the
// expected shape.
type ResponseShapeError struct {
	Source string
	Detail string
}

func (e *ResponseShapeError) Error() string {
	return fmt.Sprintf("%s returned unexpected payload: %s", e.Source, e.Detail)
}

// PartialFetchError aggregates per-item failures from a fetch where at least
// one item succeeded. It is surfaced as a warning alongside the partial
// results, never as a fatal error.
type PartialFetchError struct {
	Failures []string
}

func (e *PartialFetchError) Error() string {
	return strings.Join(e.Failures, "\n")
}
