package core

import (
	"context"

	"github.com/agenthands/moviesearch/internal/core/model"
)

type movie struct {
	Title       any
	Genres      []string
	Keywords    []string
	VoteAverage float64
	Runtime     float64
	Language    string
}

// MockStore evaluates filters in memory over seeded movies.
type MockStore struct {
	Movies      []movie
	Err         error
	Calls       int
	LastFilter  model.Filter
	LastProject []string
	LastLimit   int
}

func (m *MockStore) Find(ctx context.Context, f model.Filter, projection []string, limit int) ([]model.Record, error) {
	m.Calls++
	m.LastFilter = f
	m.LastProject = projection
	m.LastLimit = limit
	if m.Err != nil {
		return nil, m.Err
	}

	var out []model.Record
	for _, mv := range m.Movies {
		if len(out) == limit {
			break
		}
		if !matches(mv, f) {
			continue
		}
		rec := model.Record{}
		if mv.Title != nil {
			rec["title"] = mv.Title
		}
		out = append(out, rec)
	}
	return out, nil
}

func (m *MockStore) Ping(ctx context.Context) error  { return m.Err }
func (m *MockStore) Close(ctx context.Context) error { return nil }

func matches(mv movie, f model.Filter) bool {
	for _, c := range f.Clauses() {
		v := c.Value()
		var ok bool
		switch c.Field() {
		case model.FieldGenre:
			ok = contains(mv.Genres, v.Text())
		case model.FieldKeyword:
			ok = contains(mv.Keywords, v.Text())
		case model.FieldOriginalLanguage:
			ok = mv.Language == v.Text()
		case model.FieldVoteAverage:
			ok = compare(mv.VoteAverage, c.Operator(), v.Number())
		case model.FieldRuntime:
			ok = compare(mv.Runtime, c.Operator(), v.Number())
		}
		if c.Operator() == model.OpNe && c.Field().Kind() == model.KindString {
			ok = !ok
		}
		if !ok {
			return false
		}
	}
	return true
}

func contains(list []string, s string) bool {
	for _, x := range list {
		if x == s {
			return true
		}
	}
	return false
}

func compare(a float64, op model.Operator, b float64) bool {
	switch op {
	case model.OpEq:
		return a == b
	case model.OpNe:
		return a != b
	case model.OpGt:
		return a > b
	case model.OpGte:
		return a >= b
	case model.OpLt:
		return a < b
	case model.OpLte:
		return a <= b
	}
	return false
}

type MockSynthesizer struct {
	Response string
	Err      error
	Inputs   []string
}

func (m *MockSynthesizer) Synthesize(ctx context.Context, userText string) (string, error) {
	m.Inputs = append(m.Inputs, userText)
	if m.Err != nil {
		return "", m.Err
	}
	return m.Response, nil
}

type MockLLM struct {
	Response string
	Prompts  []string
}

func (m *MockLLM) Generate(ctx context.Context, prompt string) (string, error) {
	m.Prompts = append(m.Prompts, prompt)
	return m.Response, nil
}
