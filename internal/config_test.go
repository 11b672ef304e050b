package internal

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Console.Prompt != ">> " {
		t.Errorf("Prompt = %q, want \">> \"", cfg.Console.Prompt)
	}
	if cfg.Console.HistoryWindow != 5 {
		t.Errorf("HistoryWindow = %d, want 5", cfg.Console.HistoryWindow)
	}
	if !cfg.Console.Colors {
		t.Error("Colors should default to true")
	}
	if cfg.Store.SessionKey != "slate_session" {
		t.Errorf("SessionKey = %q, want slate_session", cfg.Store.SessionKey)
	}
	if cfg.Store.Path == "" {
		t.Error("store path should have a default")
	}
	if len(cfg.Engine.Preload) != 0 {
		t.Errorf("Preload = %v, want none", cfg.Engine.Preload)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate, got %v", err)
	}
}

func TestLoadConfig(t *testing.T) {
	t.Run("empty path keeps defaults", func(t *testing.T) {
		cfg, err := LoadConfig("")
		if err != nil {
			t.Fatalf("LoadConfig() error = %v", err)
		}
		if cfg.Console.Prompt != ">> " {
			t.Errorf("Prompt = %q, want the default", cfg.Console.Prompt)
		}
	})

	t.Run("file overrides defaults", func(t *testing.T) {
		path := writeConfig(t, `
console:
  prompt: "% "
store:
  session_key: work
engine:
  preload: [stats]
`)
		cfg, err := LoadConfig(path)
		if err != nil {
			t.Fatalf("LoadConfig() error = %v", err)
		}
		if cfg.Console.Prompt != "% " {
			t.Errorf("Prompt = %q, want \"%% \"", cfg.Console.Prompt)
		}
		if cfg.Store.SessionKey != "work" {
			t.Errorf("SessionKey = %q, want work", cfg.Store.SessionKey)
		}
		if len(cfg.Engine.Preload) != 1 || cfg.Engine.Preload[0] != "stats" {
			t.Errorf("Preload = %v, want [stats]", cfg.Engine.Preload)
		}
		// Untouched settings keep their defaults.
		if cfg.Console.HistoryWindow != 5 {
			t.Errorf("HistoryWindow = %d, want the default 5", cfg.Console.HistoryWindow)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		if _, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
			t.Error("LoadConfig() should fail for a missing file")
		}
	})

	t.Run("malformed yaml", func(t *testing.T) {
		path := writeConfig(t, "console: [not a mapping")
		if _, err := LoadConfig(path); err == nil {
			t.Error("LoadConfig() should fail for malformed yaml")
		}
	})

	t.Run("invalid values rejected", func(t *testing.T) {
		path := writeConfig(t, "console:\n  history_window: 0\n")
		if _, err := LoadConfig(path); err == nil ||
			!strings.Contains(err.Error(), "history_window") {
			t.Errorf("LoadConfig() error = %v, want history_window complaint", err)
		}
	})
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "defaults pass",
			mutate: func(c *Config) {},
		},
		{
			name:   "valid preload",
			mutate: func(c *Config) { c.Engine.Preload = []string{"plot", "num", "stats"} },
		},
		{
			name:    "history window too small",
			mutate:  func(c *Config) { c.Console.HistoryWindow = 0 },
			wantErr: "history_window",
		},
		{
			name:    "empty session key",
			mutate:  func(c *Config) { c.Store.SessionKey = "" },
			wantErr: "session_key",
		},
		{
			name:    "unknown preload module",
			mutate:  func(c *Config) { c.Engine.Preload = []string{"turbo"} },
			wantErr: `unknown module "turbo"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() error = %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want substring %q", err, tt.wantErr)
			}
		})
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "slate.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}
