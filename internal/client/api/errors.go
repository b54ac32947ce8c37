package api

import (
	"fmt"
	"sort"
	"strings"
)

// The executor reports failure through a closed set of error types so callers
// can branch with errors.As instead of probing optional fields:
//
//	*ValidationError — 422 with per-field messages
//	*HTTPError       — any other non-2xx response
//	*NetworkError    — no response at all (carries no status code)

// HTTPError is a response the server produced with a non-2xx status.
type HTTPError struct {
	StatusCode int
	Message    string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("server returned %d: %s", e.StatusCode, e.Message)
}

// ValidationError is a 422 carrying field-level messages.
type ValidationError struct {
	Message string
	Fields  map[string][]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s", e.Message)
}

// Flatten joins every field message into one display string, field order
// stable, one message per line.
func (e *ValidationError) Flatten() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	var lines []string
	for _, name := range names {
		lines = append(lines, e.Fields[name]...)
	}
	return strings.Join(lines, "\n")
}

// NetworkError is a transport-level failure: the request never produced an
// HTTP response, so there is no status code to report.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error: %v", e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}
