package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/ollama/ollama/api"
	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/agenthands/moviesearch/internal/logger"
	"github.com/agenthands/moviesearch/internal/metrics"
)

type RetryConfig struct {
	Provider        string
	Timeout         time.Duration // per attempt
	MaxRetries      int
	InitialInterval time.Duration
}

// RetryClient bounds every attempt with a deadline and retries transport
// failures with exponential backoff. The final failure is reported as
// ErrBackendTimeout or ErrBackendUnavailable.
type RetryClient struct {
	next LLMClient
	cfg  RetryConfig
}

func NewRetryClient(next LLMClient, cfg RetryConfig) *RetryClient {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.InitialInterval <= 0 {
		cfg.InitialInterval = 500 * time.Millisecond
	}
	return &RetryClient{next: next, cfg: cfg}
}

func (r *RetryClient) Generate(ctx context.Context, prompt string) (string, error) {
	log := logger.FromContext(ctx)
	start := time.Now()
	defer func() {
		metrics.GenerationDuration.WithLabelValues(r.cfg.Provider).Observe(time.Since(start).Seconds())
	}()

	var (
		completion string
		timedOut   bool
	)
	op := func() error {
		attemptCtx, cancel := context.WithTimeout(ctx, r.cfg.Timeout)
		defer cancel()

		out, err := r.next.Generate(attemptCtx, prompt)
		if err != nil {
			timedOut = ctx.Err() == nil && errors.Is(attemptCtx.Err(), context.DeadlineExceeded)
			status := "error"
			if timedOut {
				status = "timeout"
			}
			metrics.GenerationAttemptsTotal.WithLabelValues(r.cfg.Provider, status).Inc()
			if !timedOut && isPermanent(err) {
				return backoff.Permanent(err)
			}
			return err
		}
		metrics.GenerationAttemptsTotal.WithLabelValues(r.cfg.Provider, "ok").Inc()
		completion = out
		return nil
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = r.cfg.InitialInterval
	b.MaxElapsedTime = 0
	policy := backoff.WithContext(backoff.WithMaxRetries(b, uint64(r.cfg.MaxRetries)), ctx)

	notify := func(err error, wait time.Duration) {
		log.Warn("generation attempt failed, retrying",
			zap.String("provider", r.cfg.Provider),
			zap.Duration("backoff", wait),
			zap.Error(err),
		)
	}

	if err := backoff.RetryNotify(op, policy, notify); err != nil {
		if timedOut {
			return "", fmt.Errorf("%w: %v", ErrBackendTimeout, err)
		}
		return "", fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}
	return completion, nil
}

// isPermanent reports whether the backend rejected the request itself
// (bad model, bad key, bad request). Those fail the same way on every attempt.
func isPermanent(err error) bool {
	var (
		ollamaErr api.StatusError
		apiErr    *openai.APIError
		reqErr    *openai.RequestError
		status    int
	)
	switch {
	case errors.As(err, &ollamaErr):
		status = ollamaErr.StatusCode
	case errors.As(err, &apiErr):
		status = apiErr.HTTPStatusCode
	case errors.As(err, &reqErr):
		status = reqErr.HTTPStatusCode
	default:
		return false
	}
	if status == http.StatusRequestTimeout || status == http.StatusTooManyRequests {
		return false
	}
	return status >= 400 && status < 500
}
