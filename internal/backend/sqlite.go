package backend

import (
	"context"
	"errors"
	"fmt"

	"github.com/aristath/wfgraph/internal/persistence"
	"github.com/aristath/wfgraph/internal/status"
)

// SQLiteBackend reads statuses from a scheduler's state database.
type SQLiteBackend struct {
	store persistence.Store
}

// NewSQLiteBackend opens the database at cfg.Path.
func NewSQLiteBackend(ctx context.Context, cfg Config) (*SQLiteBackend, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("sqlite backend: no database path configured")
	}

	store, err := persistence.NewSQLiteStore(ctx, cfg.Path)
	if err != nil {
		return nil, err
	}
	return &SQLiteBackend{store: store}, nil
}

// NewSQLiteBackendFromStore wraps an already open store.
func NewSQLiteBackendFromStore(store persistence.Store) *SQLiteBackend {
	return &SQLiteBackend{store: store}
}

// Statuses returns the recorded status of the named tasks.
func (b *SQLiteBackend) Statuses(ctx context.Context, names []string) (status.Overlay, error) {
	overlay, err := b.store.Statuses(ctx)
	if errors.Is(err, persistence.ErrInvalidStatus) {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	if err != nil {
		return nil, err
	}
	return overlay.Restrict(names), nil
}

// Close closes the database.
func (b *SQLiteBackend) Close() error {
	return b.store.Close()
}
