package testutil

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	_ "modernc.org/sqlite"
)

// SampleSnapshotJSON returns a canonical exported session document. The
// history has one successful and one failed execution plus a variable
// entry of each serializability kind.
func SampleSnapshotJSON() string {
	return `{
  "timestamp": "2025-06-01T10:00:10Z",
  "code_history": [
    "x = 5\ny = x * 2",
    "nope()"
  ],
  "output_history": [
    {
      "success": true,
      "stdout": "",
      "stderr": "",
      "plots": 0,
      "timestamp": "2025-06-01T10:00:00Z"
    },
    {
      "success": false,
      "stdout": "",
      "stderr": "ReferenceError: nope is not defined\n",
      "plots": 0,
      "timestamp": "2025-06-01T10:00:05Z"
    }
  ],
  "variables": {
    "x": {
      "type": "number",
      "repr": "5",
      "size": "scalar",
      "serializable": true,
      "value": 5
    },
    "m": {
      "type": "matrix",
      "repr": "matrix(2x2) [[0, 0], [0, 0]]",
      "size": "shape: (2, 2)",
      "serializable": false
    }
  },
  "version": "1.0"
}`
}

// CreateStoreFixture creates a SQLite store file holding a saved session
func CreateStoreFixture(t *testing.T, dbPath string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		t.Fatalf("Failed to create fixture directory: %v", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	defer func() { _ = db.Close() }()

	// Create slateKV table
	createTableSQL := `
	CREATE TABLE IF NOT EXISTS slateKV (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	)`
	if _, err := db.Exec(createTableSQL); err != nil {
		t.Fatalf("Failed to create table: %v", err)
	}

	insertSQL := "INSERT INTO slateKV (key, value) VALUES (?, ?)"
	if _, err := db.Exec(insertSQL, "slate_session", SampleSnapshotJSON()); err != nil {
		t.Fatalf("Failed to insert session: %v", err)
	}
}

// CreateConfigFixture writes a console config file and returns its path
func CreateConfigFixture(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "slate.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config fixture: %v", err)
	}
	return path
}
