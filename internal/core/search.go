package core

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/agenthands/moviesearch/internal/core/validate"
	"github.com/agenthands/moviesearch/internal/llm"
	"github.com/agenthands/moviesearch/internal/logger"
	"github.com/agenthands/moviesearch/internal/metrics"
	"github.com/agenthands/moviesearch/internal/store"
)

// DefaultLimit caps every result set unless configured otherwise.
const DefaultLimit = 20

var titleProjection = []string{"title"}

type QuerySynthesizer interface {
	Synthesize(ctx context.Context, userText string) (string, error)
}

// MovieSearch turns free text into a validated filter and runs it. It holds
// no per-request state and is safe for concurrent use.
type MovieSearch struct {
	Store       store.MovieStore
	Synthesizer QuerySynthesizer
	Limit       int
}

func NewMovieSearch(movieStore store.MovieStore, synthesizer QuerySynthesizer, limit int) *MovieSearch {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &MovieSearch{
		Store:       movieStore,
		Synthesizer: synthesizer,
		Limit:       limit,
	}
}

// Search synthesizes a filter from userText and returns matching titles.
func (m *MovieSearch) Search(ctx context.Context, userText string) ([]string, error) {
	titles, err := m.search(ctx, userText)
	metrics.QueriesTotal.WithLabelValues(Outcome(err)).Inc()
	return titles, err
}

func (m *MovieSearch) search(ctx context.Context, userText string) ([]string, error) {
	raw, err := m.Synthesizer.Synthesize(ctx, userText)
	if err != nil {
		return nil, err
	}
	return m.Resolve(ctx, raw)
}

// Resolve validates a raw completion and, only if it is valid, runs it
// against the store. Records without a string title are skipped.
func (m *MovieSearch) Resolve(ctx context.Context, raw string) ([]string, error) {
	log := logger.FromContext(ctx)

	filter, err := validate.Parse(raw)
	if err != nil {
		log.Warn("rejected generated query",
			zap.Error(err),
			zap.String("completion", raw),
		)
		return nil, err
	}
	log.Debug("executing generated query", zap.Any("filter", filter.Map()))

	records, err := m.Store.Find(ctx, filter, titleProjection, m.Limit)
	if err != nil {
		if !errors.Is(err, store.ErrUnavailable) {
			err = fmt.Errorf("%w: %v", store.ErrUnavailable, err)
		}
		return nil, err
	}

	titles := make([]string, 0, len(records))
	for _, rec := range records {
		title, ok := rec.Title()
		if !ok {
			continue
		}
		titles = append(titles, title)
		if len(titles) == m.Limit {
			break
		}
	}
	return titles, nil
}

// Outcome classifies a Search error for metrics.
func Outcome(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeOK
	case errors.Is(err, validate.ErrInvalidSyntax):
		return metrics.OutcomeInvalidSyntax
	case errors.Is(err, validate.ErrSchemaViolation):
		return metrics.OutcomeSchemaViolation
	case errors.Is(err, llm.ErrBackendTimeout):
		return metrics.OutcomeBackendTimeout
	case errors.Is(err, llm.ErrBackendUnavailable):
		return metrics.OutcomeBackendUnavailable
	case errors.Is(err, store.ErrUnavailable):
		return metrics.OutcomeStoreUnavailable
	default:
		return metrics.OutcomeInternal
	}
}
