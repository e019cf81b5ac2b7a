package llm

import (
	"context"
	"sync"
)

type MockLLM struct {
	mu        sync.Mutex
	Responses []string
	Errs      []error
	Calls     int
	Block     bool
}

func (m *MockLLM) Generate(ctx context.Context, prompt string) (string, error) {
	m.mu.Lock()
	i := m.Calls
	m.Calls++
	m.mu.Unlock()

	if m.Block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	if i < len(m.Errs) && m.Errs[i] != nil {
		return "", m.Errs[i]
	}
	if i < len(m.Responses) {
		return m.Responses[i], nil
	}
	if len(m.Responses) > 0 {
		return m.Responses[len(m.Responses)-1], nil
	}
	return "", nil
}
