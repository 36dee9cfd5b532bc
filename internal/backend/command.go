package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/aristath/wfgraph/internal/process"
	"github.com/aristath/wfgraph/internal/status"
)

// CommandBackend asks an external command for statuses. The command must print
// a JSON object mapping task names to status tokens, e.g.
//
//	{"fetch": "completed", "align": "running"}
type CommandBackend struct {
	command string
	args    []string
	workDir string
	procMgr *process.Manager
}

// NewCommandBackend creates a command backend.
// The process manager is optional - if nil, subprocesses won't be tracked.
func NewCommandBackend(cfg Config, procMgr *process.Manager) (*CommandBackend, error) {
	if cfg.Command == "" {
		return nil, fmt.Errorf("command backend: no command configured")
	}

	workDir := cfg.WorkDir
	if workDir == "" {
		var err error
		workDir, err = os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
	}

	return &CommandBackend{
		command: cfg.Command,
		args:    append([]string(nil), cfg.Args...),
		workDir: workDir,
		procMgr: procMgr,
	}, nil
}

// Statuses runs the command once and parses its output.
func (b *CommandBackend) Statuses(ctx context.Context, names []string) (status.Overlay, error) {
	cmd := process.New(ctx, b.command, b.args...)
	cmd.Dir = b.workDir

	stdout, stderr, err := process.Run(ctx, cmd, nil, b.procMgr)
	if err != nil {
		return nil, fmt.Errorf("status command failed: %w", err)
	}

	var raw map[string]string
	if err := json.Unmarshal(stdout, &raw); err != nil {
		return nil, fmt.Errorf("%w: parsing status command output: %v (stderr: %s)", ErrMalformed, err, string(stderr))
	}

	return parseStatuses(raw, names)
}

// Close is a no-op (subprocess-per-invocation model).
func (b *CommandBackend) Close() error {
	return nil
}
