package model

import (
	"fmt"
	"sort"
)

// Value is a string or number operand.
type Value struct {
	kind Kind
	str  string
	num  float64
}

func StringValue(s string) Value  { return Value{kind: KindString, str: s} }
func NumberValue(n float64) Value { return Value{kind: KindNumber, num: n} }

func (v Value) Kind() Kind      { return v.kind }
func (v Value) Text() string    { return v.str }
func (v Value) Number() float64 { return v.num }

// Any returns the operand as a plain Go value for driver parameters.
func (v Value) Any() any {
	if v.kind == KindNumber {
		return v.num
	}
	return v.str
}

// Clause restricts one field with one operator.
type Clause struct {
	field Field
	op    Operator
	value Value
}

// NewClause validates the field, the operator and the operand kind together.
func NewClause(field Field, op Operator, value Value) (Clause, error) {
	kind := field.Kind()
	if kind == 0 {
		return Clause{}, fmt.Errorf("unknown field %q", field)
	}
	if !op.Supports(kind) {
		return Clause{}, fmt.Errorf("operator %q not allowed on %s field %q", op, kind, field)
	}
	if value.Kind() != kind {
		return Clause{}, fmt.Errorf("field %q expects a %s, got %s", field, kind, value.Kind())
	}
	return Clause{field: field, op: op, value: value}, nil
}

func (c Clause) Field() Field       { return c.field }
func (c Clause) Operator() Operator { return c.op }
func (c Clause) Value() Value       { return c.value }

// Filter is a conjunction of clauses, at most one per field, sorted by field name.
// The zero Filter matches every record.
type Filter struct {
	clauses []Clause
}

func NewFilter(clauses ...Clause) (Filter, error) {
	seen := make(map[Field]bool, len(clauses))
	sorted := make([]Clause, 0, len(clauses))
	for _, c := range clauses {
		if c.field.Kind() == 0 {
			return Filter{}, fmt.Errorf("clause has no field")
		}
		if seen[c.field] {
			return Filter{}, fmt.Errorf("duplicate clause for field %q", c.field)
		}
		seen[c.field] = true
		sorted = append(sorted, c)
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].field < sorted[j].field })
	return Filter{clauses: sorted}, nil
}

// Clauses returns a copy of the clauses.
func (f Filter) Clauses() []Clause {
	out := make([]Clause, len(f.clauses))
	copy(out, f.clauses)
	return out
}

// IsEmpty reports whether the filter matches every record.
func (f Filter) IsEmpty() bool { return len(f.clauses) == 0 }

// Map renders the filter in the document store's JSON shape, for logs.
func (f Filter) Map() map[string]any {
	m := make(map[string]any, len(f.clauses))
	for _, c := range f.clauses {
		if c.op == OpEq {
			m[string(c.field)] = c.value.Any()
			continue
		}
		m[string(c.field)] = map[string]any{string(c.op): c.value.Any()}
	}
	return m
}
