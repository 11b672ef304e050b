package cmd

import (
	"path/filepath"
	"testing"

	"slate-console/testutil"
)

func TestHealthcheckCommand(t *testing.T) {
	store := filepath.Join(t.TempDir(), "slate.db")

	if err := execCommand(t, "healthcheck", "--store", store); err != nil {
		t.Errorf("healthcheck on a fresh store: %v", err)
	}

	// With a saved session the check still passes and reports it.
	testutil.CreateStoreFixture(t, store)
	if err := execCommand(t, "healthcheck", "--store", store, "--verbose"); err != nil {
		t.Errorf("healthcheck with a saved session: %v", err)
	}
}

func TestInspectCommand(t *testing.T) {
	store := filepath.Join(t.TempDir(), "slate.db")

	if err := execCommand(t, "inspect", "--store", store); err != nil {
		t.Errorf("inspect on an empty store: %v", err)
	}

	testutil.CreateStoreFixture(t, store)
	if err := execCommand(t, "backup", "create", "--store", store); err != nil {
		t.Fatalf("backup create: %v", err)
	}
	if err := execCommand(t, "inspect", "--store", store, "--sample", "1"); err != nil {
		t.Errorf("inspect with sessions: %v", err)
	}
}
