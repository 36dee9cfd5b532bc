package persistence

import (
	"context"
)

// initSchema creates the scheduler tables if they don't exist.
// Production databases are created by the scheduler itself; this mirrors its layout.
func (s *SQLiteStore) initSchema(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS tasks (
		name TEXT PRIMARY KEY,
		status TEXT NOT NULL DEFAULT 'unknown',
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS task_dependencies (
		task_name TEXT NOT NULL,
		depends_on_name TEXT NOT NULL,
		PRIMARY KEY (task_name, depends_on_name),
		FOREIGN KEY (task_name) REFERENCES tasks(name) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_task_dependencies_task_name ON task_dependencies(task_name);
	`

	_, err := s.db.ExecContext(ctx, schema)
	return err
}
