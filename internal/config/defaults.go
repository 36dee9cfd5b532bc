package config

import "github.com/aristath/wfgraph/internal/backend"

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return &Config{
		Workflow: "workflow.toml",
		Output:   "workflow.png",
		Layout: LayoutConfig{
			Command: "dot",
			RankDir: "TB",
		},
		Backend: backend.Config{
			Type: "file",
			Path: ".wfgraph/status.toml",
		},
	}
}
