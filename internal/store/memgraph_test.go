package store

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agenthands/moviesearch/internal/core/model"
)

func squash(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func TestBuildCypher(t *testing.T) {
	f := filterOf(
		clause(model.FieldGenre, model.OpEq, model.StringValue("Action")),
		clause(model.FieldKeyword, model.OpNe, model.StringValue("zombie")),
		clause(model.FieldVoteAverage, model.OpGt, model.NumberValue(8)),
	)

	query, params, err := BuildCypher("Movie", f, []string{"title"}, 20)
	require.NoError(t, err)

	assert.Equal(t,
		"MATCH (m:Movie) WHERE $p0 IN m.genres AND NOT $p1 IN m.keywords AND m.vote_average > $p2 RETURN m.title AS title LIMIT $limit",
		squash(query))
	assert.Equal(t, map[string]any{
		"limit": int64(20),
		"p0":    "Action",
		"p1":    "zombie",
		"p2":    8.0,
	}, params)
}

func TestBuildCypher_Empty(t *testing.T) {
	query, params, err := BuildCypher("Movie", model.Filter{}, []string{"title"}, 20)
	require.NoError(t, err)
	assert.Equal(t, "MATCH (m:Movie) RETURN m.title AS title LIMIT $limit", squash(query))
	assert.Equal(t, map[string]any{"limit": int64(20)}, params)
}

func TestBuildCypher_BadProjection(t *testing.T) {
	_, _, err := BuildCypher("Movie", model.Filter{}, []string{"title) DETACH DELETE (m"}, 20)
	assert.Error(t, err)

	_, _, err = BuildCypher("Movie", model.Filter{}, nil, 20)
	assert.Error(t, err)
}

func TestNewMemgraphStore_Label(t *testing.T) {
	ok := &MockRunner{}
	_, err := NewMemgraphStore(ok, "Movie")
	assert.NoError(t, err)
	assert.False(t, ok.Closed)

	rejected := &MockRunner{}
	_, err = NewMemgraphStore(rejected, "Movie {x:1}")
	assert.Error(t, err)
	assert.True(t, rejected.Closed, "runner must be released when the label is rejected")
}

func TestMemgraphStore_Find(t *testing.T) {
	runner := &MockRunner{
		MockResult: neo4j.EagerResult{
			Keys: []string{"title"},
			Records: []*neo4j.Record{
				{Keys: []string{"title"}, Values: []any{"Heat"}},
				{Keys: []string{"title"}, Values: []any{nil}},
			},
		},
	}
	s, err := NewMemgraphStore(runner, "Movie")
	require.NoError(t, err)

	f := filterOf(clause(model.FieldRuntime, model.OpLt, model.NumberValue(100)))
	records, err := s.Find(context.Background(), f, []string{"title"}, 20)
	require.NoError(t, err)

	require.Len(t, records, 2)
	title, ok := records[0].Title()
	assert.True(t, ok)
	assert.Equal(t, "Heat", title)
	_, ok = records[1].Title()
	assert.False(t, ok)

	assert.Contains(t, runner.QueryExecuted, "m.runtime < $p0")
	assert.Equal(t, 100.0, runner.QueryParams["p0"])
}

func TestMemgraphStore_Errors(t *testing.T) {
	runner := &MockRunner{Err: fmt.Errorf("connection refused")}
	s, err := NewMemgraphStore(runner, "Movie")
	require.NoError(t, err)

	_, err = s.Find(context.Background(), model.Filter{}, []string{"title"}, 20)
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.ErrorIs(t, s.Ping(context.Background()), ErrUnavailable)

	require.NoError(t, s.Close(context.Background()))
	assert.True(t, runner.Closed)
}
