// Package validate turns an untrusted LLM completion into a schema-checked
// model.Filter. Nothing else in the repository builds a Filter from text.
package validate

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/agenthands/moviesearch/internal/core/common"
	"github.com/agenthands/moviesearch/internal/core/model"
)

// Normalize trims the completion and strips code fences around it.
func Normalize(raw string) string {
	return common.StripCodeFence(raw)
}

// Parse normalizes, parses and validates a completion. Errors are *Error
// values wrapping ErrInvalidSyntax or ErrSchemaViolation. The whole filter is
// rejected on the first bad clause.
func Parse(raw string) (model.Filter, error) {
	doc, err := decode(Normalize(raw))
	if err != nil {
		return model.Filter{}, &Error{Kind: ErrInvalidSyntax, Raw: raw, Reason: err.Error()}
	}

	obj, ok := doc.(map[string]any)
	if !ok {
		return model.Filter{}, violation(raw, "top-level value must be an object, got %s", describe(doc))
	}

	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	clauses := make([]model.Clause, 0, len(keys))
	for _, key := range keys {
		field, ok := model.LookupField(key)
		if !ok {
			return model.Filter{}, violation(raw, "unknown field %q", key)
		}

		clause, err := parseClause(field, obj[key])
		if err != nil {
			return model.Filter{}, violation(raw, "%v", err)
		}
		clauses = append(clauses, clause)
	}

	f, err := model.NewFilter(clauses...)
	if err != nil {
		return model.Filter{}, violation(raw, "%v", err)
	}
	return f, nil
}

func decode(text string) (any, error) {
	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()

	var doc any
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("empty completion")
		}
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("trailing data after JSON value")
	}
	return doc, nil
}

func parseClause(field model.Field, raw any) (model.Clause, error) {
	if cmp, ok := raw.(map[string]any); ok {
		if len(cmp) != 1 {
			return model.Clause{}, fmt.Errorf("comparison on %q must have exactly one operator, got %d", field, len(cmp))
		}
		for name, operand := range cmp {
			op, ok := model.LookupOperator(name)
			if !ok {
				return model.Clause{}, fmt.Errorf("unknown operator %q on %q", name, field)
			}
			value, err := parseScalar(field, operand)
			if err != nil {
				return model.Clause{}, err
			}
			return model.NewClause(field, op, value)
		}
	}

	value, err := parseScalar(field, raw)
	if err != nil {
		return model.Clause{}, err
	}
	return model.NewClause(field, model.OpEq, value)
}

func parseScalar(field model.Field, raw any) (model.Value, error) {
	switch v := raw.(type) {
	case string:
		return model.StringValue(v), nil
	case json.Number:
		n, err := v.Float64()
		if err != nil {
			return model.Value{}, fmt.Errorf("number %s on %q is out of range", v, field)
		}
		return model.NumberValue(n), nil
	default:
		return model.Value{}, fmt.Errorf("field %q expects a %s, got %s", field, field.Kind(), describe(raw))
	}
}

func violation(raw, format string, args ...any) *Error {
	return &Error{Kind: ErrSchemaViolation, Raw: raw, Reason: fmt.Sprintf(format, args...)}
}

func describe(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case string:
		return "string"
	case json.Number:
		return "number"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return fmt.Sprintf("%T", v)
	}
}
