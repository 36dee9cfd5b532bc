// Package workflow loads task definitions from workflow files.
package workflow

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/aristath/wfgraph/internal/graph"
	"github.com/aristath/wfgraph/internal/persistence"
)

// File is the on-disk shape of a workflow definition.
//
//	[[task]]
//	name = "align"
//	depends_on = ["fetch", "index"]
type File struct {
	Tasks []TaskDef `toml:"task" json:"tasks"`
}

// TaskDef declares one task and its upstream dependencies.
type TaskDef struct {
	Name      string   `toml:"name" json:"name"`
	DependsOn []string `toml:"depends_on" json:"depends_on,omitempty"`
}

// Load reads a workflow file. The format is chosen by extension: .toml or .json.
func Load(path string) ([]graph.Task, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read workflow: %w", err)
	}

	var f *File
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		f, err = decodeTOML(data)
	case ".json":
		f, err = decodeJSON(data)
	default:
		return nil, fmt.Errorf("read workflow %s: unsupported file type %q (want .toml or .json)", path, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("parse workflow %s: %w", path, err)
	}

	if len(f.Tasks) == 0 {
		return nil, &graph.UpstreamDataError{Reason: fmt.Sprintf("workflow %s declares no tasks", path)}
	}

	return f.toTasks(), nil
}

// IsDatabase reports whether path names a scheduler state database rather
// than a workflow file.
func IsDatabase(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite", ".sqlite3":
		return true
	}
	return false
}

// Open loads tasks from a workflow file or, for .db/.sqlite paths, from the
// task tables of a scheduler state database.
func Open(ctx context.Context, path string) ([]graph.Task, error) {
	if !IsDatabase(path) {
		return Load(path)
	}

	store, err := persistence.NewSQLiteStore(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("read workflow: %w", err)
	}
	defer store.Close()

	tasks, err := store.ListTasks(ctx)
	if err != nil {
		return nil, fmt.Errorf("read workflow %s: %w", path, err)
	}
	if len(tasks) == 0 {
		return nil, &graph.UpstreamDataError{Reason: fmt.Sprintf("database %s records no tasks", path)}
	}
	return tasks, nil
}

func decodeTOML(data []byte) (*File, error) {
	var f File
	meta, err := toml.Decode(string(data), &f)
	if err != nil {
		return nil, err
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("unknown key %q", undecoded[0].String())
	}
	return &f, nil
}

// decodeJSON rejects unknown fields and trailing data so a typo cannot
// silently drop dependencies.
func decodeJSON(data []byte) (*File, error) {
	var f File
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&f); err != nil {
		return nil, err
	}

	var trailing any
	if err := dec.Decode(&trailing); err != io.EOF {
		if err == nil {
			return nil, fmt.Errorf("trailing data")
		}
		return nil, err
	}
	return &f, nil
}

func (f *File) toTasks() []graph.Task {
	tasks := make([]graph.Task, len(f.Tasks))
	for i, def := range f.Tasks {
		tasks[i] = graph.Task{
			Name:      def.Name,
			DependsOn: append([]string(nil), def.DependsOn...),
		}
	}
	return tasks
}
