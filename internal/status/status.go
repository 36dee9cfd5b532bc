package status

import (
	"fmt"
	"strings"
)

// Status is the runtime state of a task as reported by the workflow backend.
type Status int

const (
	Unknown   Status = iota // Not reported by the backend
	Cancelled               // Killed before finishing
	Failed                  // Finished with error
	Completed               // Finished successfully
	Running                 // Currently executing
	Submitted               // Queued on the backend
	ShouldRun               // Outdated, needs to run
)

// All returns every status in legend order.
func All() []Status {
	return []Status{Cancelled, Failed, Completed, Running, Submitted, ShouldRun, Unknown}
}

// String returns the lowercase token used in status files and backend output.
func (s Status) String() string {
	switch s {
	case Cancelled:
		return "cancelled"
	case Failed:
		return "failed"
	case Completed:
		return "completed"
	case Running:
		return "running"
	case Submitted:
		return "submitted"
	case ShouldRun:
		return "shouldrun"
	case Unknown:
		return "unknown"
	}
	return fmt.Sprintf("status(%d)", int(s))
}

// Color returns the Graphviz color name used for nodes in this status.
func (s Status) Color() string {
	switch s {
	case Cancelled:
		return "purple"
	case Failed:
		return "red"
	case Completed:
		return "green"
	case Running:
		return "blue"
	case Submitted:
		return "yellow"
	case ShouldRun:
		return "black"
	case Unknown:
		return "black"
	}
	panic(fmt.Sprintf("status: no color for %s", s))
}

// ParseStatus parses a status token. Matching ignores case, and "should_run"
// and "should-run" are accepted for ShouldRun.
func ParseStatus(s string) (Status, error) {
	token := strings.ToLower(strings.TrimSpace(s))
	token = strings.NewReplacer("_", "", "-", "").Replace(token)
	for _, st := range All() {
		if st.String() == token {
			return st, nil
		}
	}
	return Unknown, fmt.Errorf("unknown status %q", s)
}
