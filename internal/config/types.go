package config

import "github.com/aristath/wfgraph/internal/backend"

// LayoutConfig selects the Graphviz engine used to lay out diagrams.
type LayoutConfig struct {
	Command string   `json:"command"`           // Layout binary (e.g., "dot", "neato")
	Args    []string `json:"args,omitempty"`    // Extra args passed before -T<format>
	RankDir string   `json:"rankdir,omitempty"` // TB, BT, LR or RL
}

// ViewerConfig selects the program used by --view.
type ViewerConfig struct {
	Command string   `json:"command,omitempty"` // Empty means the platform default
	Args    []string `json:"args,omitempty"`
}

// Config is the top-level configuration.
type Config struct {
	Workflow   string         `json:"workflow"`    // Workflow definition file
	Output     string         `json:"output"`      // Default diagram destination
	KeepSource bool           `json:"keep_source"` // Also write the DOT source next to the output
	Layout     LayoutConfig   `json:"layout"`
	Viewer     ViewerConfig   `json:"viewer"`
	Backend    backend.Config `json:"backend"` // Status source used by --status
}
