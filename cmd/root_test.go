package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"slate-console/internal/session"
	"slate-console/testutil"
)

// execCommand runs the root command with the given args. Package level
// flag variables are reset first to avoid state pollution between tests.
func execCommand(t *testing.T, args ...string) error {
	t.Helper()
	verbose = false
	configPath = ""
	storePath = ""
	sessionKey = ""
	format = "json"
	outputDir = "."
	runSnippet = ""
	runSave = false
	limit = 0
	since = ""
	inspectSampleRows = 3
	healthcheckVerbose = false

	rootCmd.SetArgs(args)
	rootCmd.SetOut(&bytes.Buffer{})
	rootCmd.SetErr(&bytes.Buffer{})
	return rootCmd.Execute()
}

// writeSessionFixture writes a small exported session to disk and
// returns its path.
func writeSessionFixture(t *testing.T) string {
	t.Helper()
	snap := session.NewSnapshot(
		[]string{"x = 1", "print(x)"},
		[]session.OutputRecord{
			{Success: true, Timestamp: "2025-06-01T10:00:00Z"},
			{Success: true, Stdout: "1\n", Timestamp: "2025-06-01T10:00:05Z"},
		},
		nil,
		time.Date(2025, 6, 1, 10, 0, 5, 0, time.UTC),
	)
	data, err := session.Encode(snap)
	if err != nil {
		t.Fatalf("encode fixture: %v", err)
	}
	path := filepath.Join(t.TempDir(), "session.json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func TestRootCommand(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr bool
	}{
		{
			name:    "version flag",
			args:    []string{"--version"},
			wantErr: false,
		},
		{
			name:    "help flag",
			args:    []string{"--help"},
			wantErr: false,
		},
		{
			name:    "unknown command",
			args:    []string{"nonexistent-command"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := execCommand(t, tt.args...)
			if (err != nil) != tt.wantErr {
				t.Errorf("rootCmd.Execute() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestRootCommand_FlagOverrides(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "custom.db")

	err := execCommand(t, "stats", "--store", dbPath, "--session-key", "custom_key")
	if err != nil {
		t.Fatalf("stats with overrides: %v", err)
	}
	if cfg.Store.Path != dbPath {
		t.Errorf("store path = %q, want %q", cfg.Store.Path, dbPath)
	}
	if cfg.Store.SessionKey != "custom_key" {
		t.Errorf("session key = %q, want %q", cfg.Store.SessionKey, "custom_key")
	}
	if _, err := os.Stat(dbPath); err != nil {
		t.Errorf("store file was not created: %v", err)
	}
}

func TestRootCommand_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "from-config.db")
	cfgPath := testutil.CreateConfigFixture(t, dir,
		"store:\n  path: "+dbPath+"\n  session_key: from_config\n")

	if err := execCommand(t, "stats", "--config", cfgPath); err != nil {
		t.Fatalf("stats with config: %v", err)
	}
	if cfg.Store.Path != dbPath {
		t.Errorf("store path = %q, want %q", cfg.Store.Path, dbPath)
	}
	if cfg.Store.SessionKey != "from_config" {
		t.Errorf("session key = %q, want %q", cfg.Store.SessionKey, "from_config")
	}

	// Flags win over the config file.
	override := filepath.Join(dir, "override.db")
	if err := execCommand(t, "stats", "--config", cfgPath, "--store", override); err != nil {
		t.Fatalf("stats with config and flag: %v", err)
	}
	if cfg.Store.Path != override {
		t.Errorf("store path = %q, want flag override %q", cfg.Store.Path, override)
	}
}

func TestRootCommand_BadConfig(t *testing.T) {
	cfgPath := testutil.CreateConfigFixture(t, t.TempDir(), "console:\n  history_window: 0\n")
	if err := execCommand(t, "stats", "--config", cfgPath); err == nil {
		t.Error("invalid config should fail the command")
	}
}
