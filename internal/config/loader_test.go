package config

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
	return path
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name          string
		globalConfig  string
		projectConfig string
		check         func(t *testing.T, cfg *Config)
		errContains   string
	}{
		{
			name: "No config files - returns defaults",
			check: func(t *testing.T, cfg *Config) {
				if cfg.Workflow != "workflow.toml" {
					t.Errorf("workflow = %q, want workflow.toml", cfg.Workflow)
				}
				if cfg.Output != "workflow.png" {
					t.Errorf("output = %q, want workflow.png", cfg.Output)
				}
				if cfg.Layout.Command != "dot" || cfg.Layout.RankDir != "TB" {
					t.Errorf("layout = %+v, want dot/TB", cfg.Layout)
				}
				if cfg.KeepSource {
					t.Error("keep_source should default to false")
				}
				if cfg.Backend.Type != "file" {
					t.Errorf("backend.type = %q, want file", cfg.Backend.Type)
				}
			},
		},
		{
			name:         "Global only - overrides output",
			globalConfig: `{"output": "pipeline.svg"}`,
			check: func(t *testing.T, cfg *Config) {
				if cfg.Output != "pipeline.svg" {
					t.Errorf("output = %q, want pipeline.svg", cfg.Output)
				}
				if cfg.Workflow != "workflow.toml" {
					t.Errorf("workflow = %q, untouched default expected", cfg.Workflow)
				}
			},
		},
		{
			name:          "Project only - nested fields merge into defaults",
			projectConfig: `{"layout": {"rankdir": "LR"}, "backend": {"type": "sqlite", "path": "state.db"}}`,
			check: func(t *testing.T, cfg *Config) {
				if cfg.Layout.RankDir != "LR" {
					t.Errorf("rankdir = %q, want LR", cfg.Layout.RankDir)
				}
				if cfg.Layout.Command != "dot" {
					t.Errorf("layout.command = %q, want default dot kept", cfg.Layout.Command)
				}
				if cfg.Backend.Type != "sqlite" || cfg.Backend.Path != "state.db" {
					t.Errorf("backend = %+v, want sqlite/state.db", cfg.Backend)
				}
			},
		},
		{
			name:          "Project overrides global - project wins",
			globalConfig:  `{"keep_source": true, "viewer": {"command": "feh"}, "layout": {"args": ["-Gdpi=300"]}}`,
			projectConfig: `{"keep_source": false, "layout": {"args": ["-Gsplines=ortho"]}}`,
			check: func(t *testing.T, cfg *Config) {
				if cfg.KeepSource {
					t.Error("keep_source = true, want project's false")
				}
				if cfg.Viewer.Command != "feh" {
					t.Errorf("viewer.command = %q, want global's feh", cfg.Viewer.Command)
				}
				if !slices.Equal(cfg.Layout.Args, []string{"-Gsplines=ortho"}) {
					t.Errorf("layout.args = %v, want project list only", cfg.Layout.Args)
				}
			},
		},
		{
			name:          "Invalid rankdir",
			projectConfig: `{"layout": {"rankdir": "sideways"}}`,
			errContains:   "rankdir",
		},
		{
			name:          "Invalid backend type",
			projectConfig: `{"backend": {"type": "slurm"}}`,
			errContains:   "backend.type",
		},
		{
			name:          "Empty layout command",
			projectConfig: `{"layout": {"command": ""}}`,
			errContains:   "layout.command",
		},
		{
			name:          "Unknown field",
			projectConfig: `{"outptu": "typo.png"}`,
			errContains:   "outptu",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpDir := t.TempDir()

			globalPath := ""
			if tt.globalConfig != "" {
				globalPath = writeConfig(t, tmpDir, "global.json", tt.globalConfig)
			}
			projectPath := ""
			if tt.projectConfig != "" {
				projectPath = writeConfig(t, tmpDir, "project.json", tt.projectConfig)
			}

			cfg, err := Load(globalPath, projectPath)
			if tt.errContains != "" {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if !strings.Contains(err.Error(), tt.errContains) {
					t.Errorf("error = %q, want to contain %q", err.Error(), tt.errContains)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			tt.check(t, cfg)
		})
	}
}

func TestLoad_MalformedJSON(t *testing.T) {
	tmpDir := t.TempDir()
	globalPath := writeConfig(t, tmpDir, "global.json", "{invalid json")

	_, err := Load(globalPath, "")
	if err == nil {
		t.Fatal("expected error for malformed JSON, got nil")
	}

	if !strings.Contains(err.Error(), globalPath) {
		t.Errorf("error %q should mention %s", err.Error(), globalPath)
	}
	if !strings.Contains(err.Error(), "global config") {
		t.Errorf("error %q should say which layer failed", err.Error())
	}
}

func TestLoad_MissingFilesNotError(t *testing.T) {
	cfg, err := Load("/nonexistent/global.json", "/nonexistent/project.json")
	if err != nil {
		t.Fatalf("expected no error for missing files, got: %v", err)
	}

	if cfg.Output != DefaultConfig().Output {
		t.Errorf("output = %q, want default", cfg.Output)
	}
}
