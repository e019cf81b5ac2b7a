// Package store exposes read-only access to the movie collection. No write,
// update or delete operation is reachable through MovieStore.
package store

import (
	"context"
	"errors"

	"github.com/agenthands/moviesearch/internal/core/model"
)

var ErrUnavailable = errors.New("document store unavailable")

// MovieStore runs a validated filter against the movie collection and returns
// at most limit records with only the projected fields populated.
type MovieStore interface {
	Find(ctx context.Context, f model.Filter, projection []string, limit int) ([]model.Record, error)
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}
