package store

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/agenthands/moviesearch/internal/core/model"
)

type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

func NewMongoStore(ctx context.Context, uri, database, collection string, timeout time.Duration) (*MongoStore, error) {
	opts := options.Client().
		ApplyURI(uri).
		SetTimeout(timeout).
		SetReadPreference(readpref.PrimaryPreferred())

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: connect: %v", ErrUnavailable, err)
	}

	s := &MongoStore{
		client: client,
		coll:   client.Database(database).Collection(collection),
	}
	if err := s.Ping(ctx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	return s, nil
}

func (s *MongoStore) Find(ctx context.Context, f model.Filter, projection []string, limit int) ([]model.Record, error) {
	opts := options.Find().
		SetProjection(MongoProjection(projection)).
		SetLimit(int64(limit))

	cur, err := s.coll.Find(ctx, MongoFilter(f), opts)
	if err != nil {
		return nil, fmt.Errorf("%w: find: %v", ErrUnavailable, err)
	}
	defer cur.Close(ctx)

	var docs []bson.M
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrUnavailable, err)
	}

	records := make([]model.Record, 0, len(docs))
	for _, d := range docs {
		records = append(records, model.Record(d))
	}
	return records, nil
}

func (s *MongoStore) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx, readpref.PrimaryPreferred()); err != nil {
		return fmt.Errorf("%w: ping: %v", ErrUnavailable, err)
	}
	return nil
}

func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// MongoFilter renders a validated filter as a query document. Equality uses
// the implicit {field: value} form; other operators use {field: {op: value}}.
func MongoFilter(f model.Filter) bson.D {
	d := bson.D{}
	for _, c := range f.Clauses() {
		key := string(c.Field())
		if c.Operator() == model.OpEq {
			d = append(d, bson.E{Key: key, Value: c.Value().Any()})
			continue
		}
		d = append(d, bson.E{Key: key, Value: bson.D{{Key: string(c.Operator()), Value: c.Value().Any()}}})
	}
	return d
}

// MongoProjection includes the given fields and excludes _id.
func MongoProjection(fields []string) bson.D {
	d := bson.D{{Key: "_id", Value: 0}}
	for _, f := range fields {
		d = append(d, bson.E{Key: f, Value: 1})
	}
	return d
}
