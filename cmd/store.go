package main

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/joaoccaldas/coinsnap-collector/internal/collection"
)

// initCollection opens the configured backend and loads the collection.
// The returned close function releases the backend.
func initCollection(ctx context.Context) (*collection.Collection, func() error, error) {
	backend, err := initBackend(ctx)
	if err != nil {
		return nil, nil, err
	}
	return collection.Open(ctx, backend), backend.Close, nil
}

func initBackend(ctx context.Context) (collection.Backend, error) {
	switch cfg.Store.Driver {
	case "", "file":
		return collection.NewFile(cfg.Store.Path), nil
	case "sqlite":
		backend, err := collection.NewSQLite(cfg.Store.Path)
		if err != nil {
			return nil, err
		}
		if err := backend.Migrate(ctx); err != nil {
			backend.Close()
			return nil, err
		}
		return backend, nil
	default:
		return nil, eris.Errorf("unknown store driver: %s", cfg.Store.Driver)
	}
}
