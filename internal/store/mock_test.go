package store

import (
	"context"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/agenthands/moviesearch/internal/core/model"
)

type MockRunner struct {
	QueryExecuted string
	QueryParams   map[string]any
	MockResult    neo4j.EagerResult
	Err           error
	Closed        bool
}

func (m *MockRunner) ExecuteQuery(ctx context.Context, query string, params map[string]any) (neo4j.EagerResult, error) {
	m.QueryExecuted = query
	m.QueryParams = params
	if m.Err != nil {
		return neo4j.EagerResult{}, m.Err
	}
	return m.MockResult, nil
}

func (m *MockRunner) Close(ctx context.Context) error {
	m.Closed = true
	return nil
}

func clause(field model.Field, op model.Operator, v model.Value) model.Clause {
	c, err := model.NewClause(field, op, v)
	if err != nil {
		panic(err)
	}
	return c
}

func filterOf(clauses ...model.Clause) model.Filter {
	f, err := model.NewFilter(clauses...)
	if err != nil {
		panic(err)
	}
	return f
}
