package graph

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidGraph matches any *InvalidGraphError.
	ErrInvalidGraph = errors.New("invalid graph")

	// ErrUpstreamData matches any *UpstreamDataError.
	ErrUpstreamData = errors.New("malformed task data")
)

// InvalidGraphError reports a structural problem in otherwise well-formed tasks:
// a task that depends on itself, or a dependency cycle.
type InvalidGraphError struct {
	Task  string
	Cycle []string // Set only for cycles longer than a self-loop
}

func (e *InvalidGraphError) Error() string {
	if len(e.Cycle) > 0 {
		return fmt.Sprintf("invalid graph: dependency cycle between %s", strings.Join(e.Cycle, ", "))
	}
	return fmt.Sprintf("invalid graph: task %q depends on itself", e.Task)
}

func (e *InvalidGraphError) Is(target error) bool { return target == ErrInvalidGraph }

// UpstreamDataError reports task definitions that cannot be turned into a graph.
type UpstreamDataError struct {
	Task   string
	Reason string
}

func (e *UpstreamDataError) Error() string {
	if e.Task == "" {
		return fmt.Sprintf("malformed task data: %s", e.Reason)
	}
	return fmt.Sprintf("malformed task data: task %q: %s", e.Task, e.Reason)
}

func (e *UpstreamDataError) Is(target error) bool { return target == ErrUpstreamData }
