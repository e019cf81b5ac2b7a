package store

import (
	"context"
	"fmt"
	"time"

	"github.com/agenthands/moviesearch/internal/config"
)

// Open connects to the store named by cfg.Driver and verifies it is reachable.
func Open(ctx context.Context, cfg config.StoreConfig) (MovieStore, error) {
	timeout := time.Duration(cfg.TimeoutSec) * time.Second
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	switch cfg.Driver {
	case "mongo":
		return NewMongoStore(ctx, cfg.URI, cfg.Database, cfg.Collection, timeout)

	case "elasticsearch":
		s, err := NewElasticStore(cfg.Addresses, cfg.User, cfg.Password, cfg.Collection)
		if err != nil {
			return nil, err
		}
		if err := s.Ping(ctx); err != nil {
			return nil, err
		}
		return s, nil

	case "memgraph":
		d, err := NewMemgraphDriver(ctx, cfg.URI, cfg.User, cfg.Password)
		if err != nil {
			return nil, err
		}
		return NewMemgraphStore(d, cfg.Collection)

	default:
		return nil, fmt.Errorf("unsupported store driver: %s", cfg.Driver)
	}
}
