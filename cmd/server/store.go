package main

import (
	"context"

	"github.com/pkg/errors"

	"github.com/fleshka4/cpamm/internal/config"
	"github.com/fleshka4/cpamm/internal/store"
	"github.com/fleshka4/cpamm/internal/store/memory"
	"github.com/fleshka4/cpamm/internal/store/pebble"
	"github.com/fleshka4/cpamm/internal/store/postgres"
)

// openStore opens the configured driver and puts the pool cache in front of it.
func openStore(ctx context.Context, cfg config.StoreConfig) (store.Store, error) {
	var st store.Store
	switch cfg.Driver {
	case config.DriverPebble:
		s, err := pebble.Open(cfg.Path)
		if err != nil {
			return nil, errors.Wrap(err, "pebble.Open")
		}
		st = s
	case config.DriverPostgres:
		s, err := postgres.New(ctx, cfg.DSN)
		if err != nil {
			return nil, errors.Wrap(err, "postgres.New")
		}
		if err := s.Migrate(ctx); err != nil {
			_ = s.Close()
			return nil, errors.Wrap(err, "s.Migrate")
		}
		st = s
	default:
		st = memory.New()
	}

	if cfg.CacheSize == 0 {
		return st, nil
	}
	cached, err := store.NewCached(st, cfg.CacheSize)
	if err != nil {
		_ = st.Close()
		return nil, errors.Wrap(err, "store.NewCached")
	}
	return cached, nil
}
