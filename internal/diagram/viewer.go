package diagram

import (
	"context"
	"runtime"

	"github.com/aristath/wfgraph/internal/process"
)

// DefaultViewerCommand returns the platform's "open with default application" command.
func DefaultViewerCommand() string {
	if runtime.GOOS == "darwin" {
		return "open"
	}
	return "xdg-open"
}

// Viewer opens rendered diagrams in an external application.
type Viewer struct {
	Command string
	Args    []string
}

// Open launches the viewer on path and returns without waiting for it to exit.
func (v *Viewer) Open(path string) error {
	command := v.Command
	if command == "" {
		command = DefaultViewerCommand()
	}

	args := append(append([]string(nil), v.Args...), path)
	// The viewer outlives this process, so it is not bound to a request context
	return process.Start(process.New(context.Background(), command, args...))
}
