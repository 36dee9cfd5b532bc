package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Load reads and merges configuration from global and project paths.
// Order of precedence (highest to lowest): project config, global config, defaults.
// Missing files are not errors; malformed JSON returns an error.
func Load(globalPath, projectPath string) (*Config, error) {
	cfg := DefaultConfig()

	if globalPath != "" {
		if err := mergeConfigFile(cfg, globalPath); err != nil {
			return nil, fmt.Errorf("loading global config: %w", err)
		}
	}

	// Project config has the highest precedence
	if projectPath != "" {
		if err := mergeConfigFile(cfg, projectPath); err != nil {
			return nil, fmt.Errorf("loading project config: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// DefaultPaths returns the conventional config locations.
// Global: ~/.wfgraph/config.json
// Project: .wfgraph/config.json (relative to cwd)
func DefaultPaths() (global, project string, err error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(homeDir, ".wfgraph", "config.json"), filepath.Join(".wfgraph", "config.json"), nil
}

// LoadDefault loads configuration from the conventional paths.
func LoadDefault() (*Config, error) {
	globalPath, projectPath, err := DefaultPaths()
	if err != nil {
		return nil, err
	}
	return Load(globalPath, projectPath)
}

// mergeConfigFile decodes a JSON config file over base. Only keys present in
// the file change base; lists are replaced, not appended.
// Missing files are silently skipped.
func mergeConfigFile(base *Config, path string) error {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(base); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}

	return nil
}

// Validate checks values that would otherwise fail late, after a layout run.
func (c *Config) Validate() error {
	switch c.Layout.RankDir {
	case "", "TB", "BT", "LR", "RL":
	default:
		return fmt.Errorf("invalid layout.rankdir %q: want TB, BT, LR or RL", c.Layout.RankDir)
	}

	if c.Layout.Command == "" {
		return fmt.Errorf("layout.command must not be empty")
	}

	switch c.Backend.Type {
	case "", "file", "sqlite", "command":
	default:
		return fmt.Errorf("invalid backend.type %q: want file, sqlite or command", c.Backend.Type)
	}

	return nil
}
