package diagram

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"

	"github.com/aristath/wfgraph/internal/process"
)

// Engine lays out DOT source and encodes the result in an output format.
type Engine interface {
	Layout(ctx context.Context, source []byte, format string, w io.Writer) error
}

// LayoutError reports a failure inside the layout engine.
type LayoutError struct {
	Format string
	Err    error
}

func (e *LayoutError) Error() string {
	return fmt.Sprintf("laying out %s diagram: %v", e.Format, e.Err)
}

func (e *LayoutError) Unwrap() error { return e.Err }

// DotEngine runs a Graphviz layout binary (dot by default).
type DotEngine struct {
	Command string           // Binary name or path; "dot" if empty
	Args    []string         // Extra arguments placed before -T<format>
	Manager *process.Manager // Optional; tracks the subprocess for shutdown
}

// Layout pipes source through the layout binary and copies its output to w.
func (e *DotEngine) Layout(ctx context.Context, source []byte, format string, w io.Writer) error {
	command := e.Command
	if command == "" {
		command = "dot"
	}

	path, err := exec.LookPath(command)
	if err != nil {
		return &LayoutError{Format: format, Err: fmt.Errorf("%s not found (is Graphviz installed?): %w", command, err)}
	}

	args := append(append([]string(nil), e.Args...), "-T"+format)
	cmd := process.New(ctx, path, args...)

	stdout, _, err := process.Run(ctx, cmd, source, e.Manager)
	if err != nil {
		return &LayoutError{Format: format, Err: err}
	}

	if len(stdout) == 0 {
		return &LayoutError{Format: format, Err: errors.New("layout engine produced no output")}
	}

	if _, err := w.Write(stdout); err != nil {
		return fmt.Errorf("writing %s output: %w", format, err)
	}
	return nil
}
