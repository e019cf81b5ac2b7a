package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"github.com/agenthands/moviesearch/internal/core/model"
)

type ElasticStore struct {
	client *elasticsearch.Client
	index  string
}

func NewElasticStore(addresses []string, username, password, index string) (*ElasticStore, error) {
	es, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: addresses,
		Username:  username,
		Password:  password,
	})
	if err != nil {
		return nil, fmt.Errorf("error creating the client: %w", err)
	}
	return &ElasticStore{client: es, index: index}, nil
}

type searchResponse struct {
	Hits struct {
		Hits []struct {
			Source map[string]any `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

func (s *ElasticStore) Find(ctx context.Context, f model.Filter, projection []string, limit int) ([]model.Record, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(ElasticQuery(f, projection, limit)); err != nil {
		return nil, fmt.Errorf("error encoding query: %w", err)
	}

	req := esapi.SearchRequest{
		Index: []string{s.index},
		Body:  &buf,
	}
	res, err := req.Do(ctx, s.client)
	if err != nil {
		return nil, fmt.Errorf("%w: search: %v", ErrUnavailable, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("%w: search: %s", ErrUnavailable, res.Status())
	}

	var result searchResponse
	if err := json.NewDecoder(res.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("%w: error parsing response body: %v", ErrUnavailable, err)
	}

	records := make([]model.Record, 0, len(result.Hits.Hits))
	for _, hit := range result.Hits.Hits {
		if hit.Source == nil {
			continue
		}
		records = append(records, model.Record(hit.Source))
	}
	return records, nil
}

func (s *ElasticStore) Ping(ctx context.Context) error {
	res, err := s.client.Ping(s.client.Ping.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("%w: ping: %v", ErrUnavailable, err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("%w: ping: %s", ErrUnavailable, res.Status())
	}
	return nil
}

func (s *ElasticStore) Close(ctx context.Context) error {
	return nil
}

var rangeKeys = map[model.Operator]string{
	model.OpGt:  "gt",
	model.OpGte: "gte",
	model.OpLt:  "lt",
	model.OpLte: "lte",
}

// ElasticQuery renders a validated filter as a search body. Text fields match
// as phrases so both keyword and analysed mappings work.
func ElasticQuery(f model.Filter, projection []string, limit int) map[string]any {
	var must, mustNot []any
	for _, c := range f.Clauses() {
		field := string(c.Field())
		value := c.Value().Any()

		var q map[string]any
		switch {
		case c.Operator() == model.OpEq || c.Operator() == model.OpNe:
			if c.Field().Kind() == model.KindString {
				q = map[string]any{"match_phrase": map[string]any{field: value}}
			} else {
				q = map[string]any{"term": map[string]any{field: value}}
			}
		default:
			q = map[string]any{"range": map[string]any{field: map[string]any{rangeKeys[c.Operator()]: value}}}
		}

		if c.Operator() == model.OpNe {
			mustNot = append(mustNot, q)
		} else {
			must = append(must, q)
		}
	}

	query := map[string]any{"match_all": map[string]any{}}
	if len(must) > 0 || len(mustNot) > 0 {
		boolQuery := map[string]any{}
		if len(must) > 0 {
			boolQuery["filter"] = must
		}
		if len(mustNot) > 0 {
			boolQuery["must_not"] = mustNot
		}
		query = map[string]any{"bool": boolQuery}
	}

	return map[string]any{
		"query":   query,
		"_source": projection,
		"size":    limit,
	}
}
