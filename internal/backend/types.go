package backend

// Config selects and configures a status backend.
type Config struct {
	Type    string   `json:"type"`              // "file", "sqlite" or "command"
	Path    string   `json:"path,omitempty"`    // Status file or scheduler database
	Command string   `json:"command,omitempty"` // Executable for the "command" backend
	Args    []string `json:"args,omitempty"`    // Arguments for the "command" backend
	WorkDir string   `json:"-"`                 // Working directory for the "command" backend
}
