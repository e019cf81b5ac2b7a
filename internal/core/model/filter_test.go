package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupField(t *testing.T) {
	for _, f := range Fields {
		got, ok := LookupField(string(f))
		assert.True(t, ok)
		assert.Equal(t, f, got)
	}

	_, ok := LookupField("title")
	assert.False(t, ok)
	_, ok = LookupField("$where")
	assert.False(t, ok)
}

func TestOperatorsFor(t *testing.T) {
	assert.Equal(t, []Operator{OpEq, OpNe}, OperatorsFor(KindString))
	assert.Equal(t, []Operator{OpEq, OpNe, OpGt, OpGte, OpLt, OpLte}, OperatorsFor(KindNumber))

	_, ok := LookupOperator("$regex")
	assert.False(t, ok)
}

func TestNewClause(t *testing.T) {
	_, err := NewClause(FieldVoteAverage, OpGt, NumberValue(8))
	assert.NoError(t, err)

	_, err = NewClause(FieldGenre, OpEq, StringValue("Action"))
	assert.NoError(t, err)

	_, err = NewClause(FieldGenre, OpGt, StringValue("Action"))
	assert.Error(t, err, "ordering operators are numeric only")

	_, err = NewClause(FieldRuntime, OpLt, StringValue("120"))
	assert.Error(t, err, "operand kind must match field kind")

	_, err = NewClause(Field("budget"), OpEq, NumberValue(1))
	assert.Error(t, err)
}

func TestNewFilter(t *testing.T) {
	runtime, err := NewClause(FieldRuntime, OpLt, NumberValue(100))
	require.NoError(t, err)
	genre, err := NewClause(FieldGenre, OpEq, StringValue("Comedy"))
	require.NoError(t, err)

	f, err := NewFilter(runtime, genre)
	require.NoError(t, err)

	clauses := f.Clauses()
	require.Len(t, clauses, 2)
	assert.Equal(t, FieldGenre, clauses[0].Field())
	assert.Equal(t, FieldRuntime, clauses[1].Field())
	assert.Equal(t, map[string]any{
		"genres.name": "Comedy",
		"runtime":     map[string]any{"$lt": 100.0},
	}, f.Map())

	_, err = NewFilter(genre, genre)
	assert.Error(t, err)

	_, err = NewFilter(Clause{})
	assert.Error(t, err)
}

func TestFilter_Empty(t *testing.T) {
	var zero Filter
	assert.True(t, zero.IsEmpty())

	f, err := NewFilter()
	require.NoError(t, err)
	assert.True(t, f.IsEmpty())
	assert.Empty(t, f.Map())
}

func TestRecord_Title(t *testing.T) {
	title, ok := Record{"title": "Heat"}.Title()
	assert.True(t, ok)
	assert.Equal(t, "Heat", title)

	_, ok = Record{}.Title()
	assert.False(t, ok)

	_, ok = Record{"title": nil}.Title()
	assert.False(t, ok)
}
