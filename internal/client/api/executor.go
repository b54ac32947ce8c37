// Package api issues authenticated requests against the cavea backend and
// normalizes every failure into a typed error.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Executor performs one HTTP call per invocation. It never retries and
// enforces no deadline beyond the client's default timeout.
type Executor struct {
	baseURL    string
	httpClient *http.Client
	token      func() string
}

// NewExecutor builds an executor for baseURL. token is consulted on every
// request so a re-login is picked up without rebuilding the executor.
func NewExecutor(baseURL string, token func() string) *Executor {
	return &Executor{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		token: token,
	}
}

// BaseURL returns the configured API root.
func (e *Executor) BaseURL() string {
	return e.baseURL
}

type errorBody struct {
	Message string              `json:"message"`
	Errors  map[string][]string `json:"errors"`
}

// Do sends method+path with body JSON-encoded (nil for none) and decodes a
// 2xx response into dest (nil to discard). Failures come back as
// *ValidationError, *HTTPError or *NetworkError.
func (e *Executor) Do(ctx context.Context, method, path string, body, dest interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, e.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if token := e.token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeFailure(resp)
	}

	if dest == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// decodeFailure turns a non-2xx response into a typed error. A body that is
// not parseable JSON still signals failure through the status code, just with
// an empty payload.
func decodeFailure(resp *http.Response) error {
	raw, _ := io.ReadAll(resp.Body)

	var body errorBody
	if err := json.Unmarshal(raw, &body); err != nil {
		body = errorBody{}
	}

	if resp.StatusCode == http.StatusUnprocessableEntity && len(body.Errors) > 0 {
		return &ValidationError{
			Message: body.Message,
			Fields:  body.Errors,
		}
	}
	return &HTTPError{
		StatusCode: resp.StatusCode,
		Message:    body.Message,
	}
}
