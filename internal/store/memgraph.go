package store

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/agenthands/moviesearch/internal/core/model"
)

// CypherRunner executes a parameterised read query.
type CypherRunner interface {
	ExecuteQuery(ctx context.Context, query string, params map[string]any) (neo4j.EagerResult, error)
	Close(ctx context.Context) error
}

type MemgraphDriver struct {
	Driver neo4j.DriverWithContext
}

func NewMemgraphDriver(ctx context.Context, uri, username, password string) (*MemgraphDriver, error) {
	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(username, password, ""))
	if err != nil {
		return nil, err
	}

	if err := driver.VerifyConnectivity(ctx); err != nil {
		_ = driver.Close(ctx)
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	return &MemgraphDriver{Driver: driver}, nil
}

func (d *MemgraphDriver) Close(ctx context.Context) error {
	return d.Driver.Close(ctx)
}

// ExecuteQuery runs the query with reader routing, so the cluster rejects writes.
func (d *MemgraphDriver) ExecuteQuery(ctx context.Context, query string, params map[string]any) (neo4j.EagerResult, error) {
	result, err := neo4j.ExecuteQuery(ctx, d.Driver, query, params, neo4j.EagerResultTransformer,
		neo4j.ExecuteQueryWithReadersRouting())
	if err != nil {
		return neo4j.EagerResult{}, fmt.Errorf("failed to execute query: %w", err)
	}
	return *result, nil
}

// MemgraphStore keeps movies as nodes carrying genres and keywords as list properties.
type MemgraphStore struct {
	runner CypherRunner
	label  string
}

var identifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// NewMemgraphStore takes ownership of runner; it is closed if the label is rejected.
func NewMemgraphStore(runner CypherRunner, label string) (*MemgraphStore, error) {
	if !identifier.MatchString(label) {
		_ = runner.Close(context.Background())
		return nil, fmt.Errorf("invalid node label %q", label)
	}
	return &MemgraphStore{runner: runner, label: label}, nil
}

func (s *MemgraphStore) Find(ctx context.Context, f model.Filter, projection []string, limit int) ([]model.Record, error) {
	query, params, err := BuildCypher(s.label, f, projection, limit)
	if err != nil {
		return nil, err
	}

	result, err := s.runner.ExecuteQuery(ctx, query, params)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	records := make([]model.Record, 0, len(result.Records))
	for _, rec := range result.Records {
		r := make(model.Record, len(rec.Keys))
		for i, key := range rec.Keys {
			if i < len(rec.Values) && rec.Values[i] != nil {
				r[key] = rec.Values[i]
			}
		}
		records = append(records, r)
	}
	return records, nil
}

func (s *MemgraphStore) Ping(ctx context.Context) error {
	if _, err := s.runner.ExecuteQuery(ctx, PingQuery, nil); err != nil {
		return fmt.Errorf("%w: ping: %v", ErrUnavailable, err)
	}
	return nil
}

func (s *MemgraphStore) Close(ctx context.Context) error {
	return s.runner.Close(ctx)
}

// BuildCypher renders a validated filter as a read-only MATCH query. Operand
// values always travel as parameters; only schema properties and the
// configured label are spliced into the text.
func BuildCypher(label string, f model.Filter, projection []string, limit int) (string, map[string]any, error) {
	params := map[string]any{"limit": int64(limit)}

	var conds []string
	for i, c := range f.Clauses() {
		name := fmt.Sprintf("p%d", i)
		params[name] = c.Value().Any()

		prop := graphProperties[c.Field()]
		if listProperties[c.Field()] {
			cond := fmt.Sprintf("$%s IN m.%s", name, prop)
			if c.Operator() == model.OpNe {
				cond = "NOT " + cond
			}
			conds = append(conds, cond)
			continue
		}
		conds = append(conds, fmt.Sprintf("m.%s %s $%s", prop, cypherOperators[c.Operator()], name))
	}

	returns := make([]string, 0, len(projection))
	for _, p := range projection {
		if !identifier.MatchString(p) {
			return "", nil, fmt.Errorf("invalid projection field %q", p)
		}
		returns = append(returns, fmt.Sprintf("m.%s AS %s", p, p))
	}
	if len(returns) == 0 {
		return "", nil, fmt.Errorf("projection is empty")
	}

	where := ""
	if len(conds) > 0 {
		where = "WHERE " + strings.Join(conds, " AND ")
	}

	query := fmt.Sprintf(FindMoviesQuery, label, where, strings.Join(returns, ", "))
	return query, params, nil
}
