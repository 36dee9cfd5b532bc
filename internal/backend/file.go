package backend

import (
	"context"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/aristath/wfgraph/internal/status"
)

// FileBackend reads a status snapshot written by the workflow engine:
//
//	[status]
//	fetch = "completed"
//	align = "running"
type FileBackend struct {
	path string
}

type statusFile struct {
	Status map[string]string `toml:"status"`
}

// NewFileBackend creates a backend reading the snapshot at cfg.Path.
func NewFileBackend(cfg Config) (*FileBackend, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("file backend: no path configured")
	}
	return &FileBackend{path: cfg.Path}, nil
}

// Statuses reads the snapshot. A missing file is an error; an empty one is not.
func (b *FileBackend) Statuses(ctx context.Context, names []string) (status.Overlay, error) {
	data, err := os.ReadFile(b.path)
	if err != nil {
		return nil, fmt.Errorf("reading status file: %w", err)
	}

	var f statusFile
	if _, err := toml.Decode(string(data), &f); err != nil {
		return nil, fmt.Errorf("%w: parsing %s: %v", ErrMalformed, b.path, err)
	}

	return parseStatuses(f.Status, names)
}

// Close is a no-op.
func (b *FileBackend) Close() error {
	return nil
}
