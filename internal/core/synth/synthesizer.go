// Package synth builds the query-generation prompt and sends it to the
// generation backend.
package synth

import (
	"context"
	"fmt"

	"github.com/agenthands/moviesearch/internal/llm"
)

type Synthesizer struct {
	LLM    llm.LLMClient
	Prompt *Prompt
}

func NewSynthesizer(llmClient llm.LLMClient, prompt *Prompt) *Synthesizer {
	return &Synthesizer{
		LLM:    llmClient,
		Prompt: prompt,
	}
}

// Synthesize returns the backend's completion unmodified. It fails only when
// the backend call fails; the completion's content is not inspected.
func (s *Synthesizer) Synthesize(ctx context.Context, userText string) (string, error) {
	prompt, err := s.Prompt.Render(userText)
	if err != nil {
		return "", err
	}

	completion, err := s.LLM.Generate(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("failed to generate query: %w", err)
	}
	return completion, nil
}
