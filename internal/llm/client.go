package llm

import (
	"context"
	"errors"
)

var (
	ErrBackendUnavailable = errors.New("generation backend unavailable")
	ErrBackendTimeout     = errors.New("generation backend timed out")
)

// LLMClient is a text-completion backend. Implementations must be safe for
// concurrent use and return the completion text unmodified.
type LLMClient interface {
	Generate(ctx context.Context, prompt string) (string, error)
}
