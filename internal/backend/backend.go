package backend

import (
	"context"
	"errors"
	"fmt"

	"github.com/aristath/wfgraph/internal/process"
	"github.com/aristath/wfgraph/internal/status"
)

var (
	// ErrUnknownType is returned by New for an unrecognised Config.Type.
	ErrUnknownType = errors.New("unknown backend type")

	// ErrMalformed marks backend output that cannot be parsed. Retrying will not help.
	ErrMalformed = errors.New("malformed backend data")
)

// Backend reports the runtime status of workflow tasks.
type Backend interface {
	// Statuses returns the status of each named task the backend knows about.
	// Tasks it has no record of are left out.
	Statuses(ctx context.Context, names []string) (status.Overlay, error)

	// Close releases any resources held by the backend.
	Close() error
}

// New creates a backend based on the provided configuration.
// The process manager is optional and only used by the "command" backend.
func New(ctx context.Context, cfg Config, pm *process.Manager) (Backend, error) {
	switch cfg.Type {
	case "file":
		return NewFileBackend(cfg)
	case "sqlite":
		return NewSQLiteBackend(ctx, cfg)
	case "command":
		return NewCommandBackend(cfg, pm)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, cfg.Type)
	}
}

// parseStatuses converts raw status tokens into an overlay restricted to names.
func parseStatuses(raw map[string]string, names []string) (status.Overlay, error) {
	overlay := make(status.Overlay, len(raw))
	for name, token := range raw {
		st, err := status.ParseStatus(token)
		if err != nil {
			return nil, fmt.Errorf("%w: task %s: %v", ErrMalformed, name, err)
		}
		overlay[name] = st
	}
	return overlay.Restrict(names), nil
}
