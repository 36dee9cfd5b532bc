package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"sync/atomic"

	_ "modernc.org/sqlite"

	"github.com/aristath/wfgraph/internal/graph"
	"github.com/aristath/wfgraph/internal/status"
)

// ErrInvalidStatus reports a status column that holds no known status token.
var ErrInvalidStatus = errors.New("invalid task status")

// Store is the read side of a workflow scheduler's state database.
type Store interface {
	ListTasks(ctx context.Context) ([]graph.Task, error)
	Statuses(ctx context.Context) (status.Overlay, error)
	Close() error
}

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens an existing scheduler database read-only.
// The scheduler may be writing concurrently, so reads wait on its locks.
func NewSQLiteStore(ctx context.Context, dbPath string) (*SQLiteStore, error) {
	if _, err := os.Stat(dbPath); err != nil {
		return nil, fmt.Errorf("opening scheduler database: %w", err)
	}

	connStr := fmt.Sprintf("file:%s?mode=ro&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)", dbPath)
	db, err := sql.Open("sqlite", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to open database %s: %w", dbPath, err)
	}

	return &SQLiteStore{db: db}, nil
}

var memoryStores atomic.Int64

// NewMemoryStore creates an in-memory store with the scheduler schema, for testing.
// Each call gets its own database.
func NewMemoryStore(ctx context.Context) (*SQLiteStore, error) {
	// Shared cache lets every pooled connection see the same named in-memory database
	connStr := fmt.Sprintf("file:wfgraph-%d?mode=memory&cache=shared&_pragma=foreign_keys(1)", memoryStores.Add(1))
	db, err := sql.Open("sqlite", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open memory database: %w", err)
	}

	store := &SQLiteStore{db: db}

	if err := store.initSchema(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// ListTasks returns every task with its dependencies, ordered by name.
func (s *SQLiteStore) ListTasks(ctx context.Context) ([]graph.Task, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT t.name, d.depends_on_name
		FROM tasks t
		LEFT JOIN task_dependencies d ON d.task_name = t.name
		ORDER BY t.name, d.depends_on_name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query tasks: %w", err)
	}
	defer rows.Close()

	var tasks []graph.Task
	for rows.Next() {
		var name string
		var dep sql.NullString
		if err := rows.Scan(&name, &dep); err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}

		if len(tasks) == 0 || tasks[len(tasks)-1].Name != name {
			tasks = append(tasks, graph.Task{Name: name})
		}
		if dep.Valid {
			last := &tasks[len(tasks)-1]
			last.DependsOn = append(last.DependsOn, dep.String)
		}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tasks: %w", err)
	}

	return tasks, nil
}

// Statuses returns the last recorded status of every task.
func (s *SQLiteStore) Statuses(ctx context.Context) (status.Overlay, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name, status FROM tasks ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to query statuses: %w", err)
	}
	defer rows.Close()

	overlay := make(status.Overlay)
	for rows.Next() {
		var name, token string
		if err := rows.Scan(&name, &token); err != nil {
			return nil, fmt.Errorf("failed to scan status: %w", err)
		}

		st, err := status.ParseStatus(token)
		if err != nil {
			return nil, fmt.Errorf("%w: task %s: %v", ErrInvalidStatus, name, err)
		}
		overlay[name] = st
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating statuses: %w", err)
	}

	return overlay, nil
}
