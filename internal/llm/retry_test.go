package llm

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/ollama/ollama/api"
	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastRetry(maxRetries int) RetryConfig {
	return RetryConfig{
		Provider:        "mock",
		Timeout:         time.Second,
		MaxRetries:      maxRetries,
		InitialInterval: time.Millisecond,
	}
}

func TestRetryClient_Success(t *testing.T) {
	mock := &MockLLM{Responses: []string{`{"runtime": 90}`}}
	c := NewRetryClient(mock, fastRetry(2))

	out, err := c.Generate(context.Background(), "prompt")
	require.NoError(t, err)
	assert.Equal(t, `{"runtime": 90}`, out)
	assert.Equal(t, 1, mock.Calls)
}

func TestRetryClient_RecoversAfterFailures(t *testing.T) {
	mock := &MockLLM{
		Errs:      []error{errors.New("connection refused"), errors.New("connection reset")},
		Responses: []string{"", "", "{}"},
	}
	c := NewRetryClient(mock, fastRetry(2))

	out, err := c.Generate(context.Background(), "prompt")
	require.NoError(t, err)
	assert.Equal(t, "{}", out)
	assert.Equal(t, 3, mock.Calls)
}

func TestRetryClient_Unavailable(t *testing.T) {
	mock := &MockLLM{Errs: []error{
		errors.New("connection refused"),
		errors.New("connection refused"),
		errors.New("connection refused"),
	}}
	c := NewRetryClient(mock, fastRetry(1))

	_, err := c.Generate(context.Background(), "prompt")
	assert.ErrorIs(t, err, ErrBackendUnavailable)
	assert.NotErrorIs(t, err, ErrBackendTimeout)
	assert.Equal(t, 2, mock.Calls)
}

func TestRetryClient_NoRetries(t *testing.T) {
	mock := &MockLLM{Errs: []error{errors.New("boom")}}
	c := NewRetryClient(mock, fastRetry(0))

	_, err := c.Generate(context.Background(), "prompt")
	assert.ErrorIs(t, err, ErrBackendUnavailable)
	assert.Equal(t, 1, mock.Calls)
}

func TestRetryClient_Timeout(t *testing.T) {
	mock := &MockLLM{Block: true}
	cfg := fastRetry(1)
	cfg.Timeout = 10 * time.Millisecond
	c := NewRetryClient(mock, cfg)

	_, err := c.Generate(context.Background(), "prompt")
	assert.ErrorIs(t, err, ErrBackendTimeout)
	assert.Equal(t, 2, mock.Calls)
}

func TestRetryClient_ParentCancelled(t *testing.T) {
	mock := &MockLLM{Block: true}
	c := NewRetryClient(mock, fastRetry(3))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Generate(ctx, "prompt")
	assert.ErrorIs(t, err, ErrBackendUnavailable)
	assert.Equal(t, 1, mock.Calls)
}

func TestRetryClient_PermanentErrorsNotRetried(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"ollama model not found", api.StatusError{StatusCode: http.StatusNotFound, ErrorMessage: "model 'nope' not found"}},
		{"openai unauthorized", &openai.APIError{HTTPStatusCode: http.StatusUnauthorized, Message: "invalid api key"}},
		{"openai bad request", &openai.RequestError{HTTPStatusCode: http.StatusBadRequest}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &MockLLM{Errs: []error{tt.err, tt.err, tt.err}}
			c := NewRetryClient(mock, fastRetry(2))

			_, err := c.Generate(context.Background(), "prompt")
			assert.ErrorIs(t, err, ErrBackendUnavailable)
			assert.Equal(t, 1, mock.Calls)
		})
	}
}

func TestRetryClient_RateLimitRetried(t *testing.T) {
	mock := &MockLLM{
		Errs:      []error{api.StatusError{StatusCode: http.StatusTooManyRequests}, api.StatusError{StatusCode: http.StatusServiceUnavailable}},
		Responses: []string{"", "", "{}"},
	}
	c := NewRetryClient(mock, fastRetry(2))

	out, err := c.Generate(context.Background(), "prompt")
	require.NoError(t, err)
	assert.Equal(t, "{}", out)
	assert.Equal(t, 3, mock.Calls)
}
