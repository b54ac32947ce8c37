package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func staticToken(token string) func() string {
	return func() string { return token }
}

func TestExecutorDecodesSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"total_stock": 156}`))
	}))
	defer server.Close()

	exec := NewExecutor(server.URL, staticToken(""))

	var resp struct {
		TotalStock int `json:"total_stock"`
	}
	err := exec.Do(context.Background(), http.MethodGet, "/cellar-items/total-stock", nil, &resp)
	require.NoError(t, err)
	assert.Equal(t, 156, resp.TotalStock)
}

func TestExecutorSendsBearerToken(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	exec := NewExecutor(server.URL, staticToken("secret-token"))
	require.NoError(t, exec.Do(context.Background(), http.MethodPost, "/logout", nil, nil))
	assert.Equal(t, "Bearer secret-token", gotAuth)
}

func TestExecutorOmitsAuthorizationWhenLoggedOut(t *testing.T) {
	var hasAuth bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, hasAuth = r.Header["Authorization"]
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	exec := NewExecutor(server.URL, staticToken(""))
	require.NoError(t, exec.Do(context.Background(), http.MethodGet, "/health", nil, nil))
	assert.False(t, hasAuth)
}

func TestExecutorValidationError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"message":"Validation failed.","errors":{"email":["The email field is required."],"stock":["The stock must be at least 0."]}}`))
	}))
	defer server.Close()

	exec := NewExecutor(server.URL, staticToken(""))
	err := exec.Do(context.Background(), http.MethodPost, "/cellar-items", map[string]int{}, nil)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Validation failed.", verr.Message)
	assert.Equal(t, []string{"The email field is required."}, verr.Fields["email"])
	assert.Equal(t, "The email field is required.\nThe stock must be at least 0.", verr.Flatten())
}

func TestExecutor422WithoutFieldsIsHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"message":"Unprocessable."}`))
	}))
	defer server.Close()

	exec := NewExecutor(server.URL, staticToken(""))
	err := exec.Do(context.Background(), http.MethodPost, "/cellar-items", nil, nil)

	var herr *HTTPError
	require.ErrorAs(t, err, &herr)
	assert.Equal(t, http.StatusUnprocessableEntity, herr.StatusCode)
	assert.Equal(t, "Unprocessable.", herr.Message)
}

func TestExecutorHTTPErrorWithUnparseableBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("<html>boom</html>"))
	}))
	defer server.Close()

	exec := NewExecutor(server.URL, staticToken(""))
	err := exec.Do(context.Background(), http.MethodGet, "/cellar-items", nil, nil)

	var herr *HTTPError
	require.ErrorAs(t, err, &herr)
	assert.Equal(t, http.StatusInternalServerError, herr.StatusCode)
	assert.Empty(t, herr.Message)
}

func TestExecutorNetworkError(t *testing.T) {
	// A server that is immediately closed guarantees a refused connection.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	exec := NewExecutor(server.URL, staticToken(""))
	err := exec.Do(context.Background(), http.MethodGet, "/cellar-items", nil, nil)

	var nerr *NetworkError
	require.ErrorAs(t, err, &nerr)
	assert.NotNil(t, errors.Unwrap(nerr))

	var herr *HTTPError
	assert.False(t, errors.As(err, &herr))
}

func TestValidationErrorFlattenIsStable(t *testing.T) {
	verr := &ValidationError{
		Message: "Validation failed.",
		Fields: map[string][]string{
			"b_field": {"second"},
			"a_field": {"first"},
		},
	}
	for i := 0; i < 10; i++ {
		assert.Equal(t, "first\nsecond", verr.Flatten())
	}
}
