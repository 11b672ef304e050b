package testutil

import (
	"database/sql"
	"testing"

	_ "modernc.org/sqlite"
)

// CreateInMemoryStoreDB creates an in-memory SQLite database with the
// console's key-value table for testing
func CreateInMemoryStoreDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to create in-memory database: %v", err)
	}
	// Every connection gets its own private in-memory database, so the
	// pool must stay on one connection.
	db.SetMaxOpenConns(1)

	// Create slateKV table
	createTableSQL := `
	CREATE TABLE IF NOT EXISTS slateKV (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	)`
	if _, err := db.Exec(createTableSQL); err != nil {
		db.Close()
		t.Fatalf("Failed to create slateKV table: %v", err)
	}

	return db
}

// CreateTestStoreDB creates a test database holding a saved session and
// two backups of it
func CreateTestStoreDB(t *testing.T) *sql.DB {
	t.Helper()
	db := CreateInMemoryStoreDB(t)

	entries := []struct {
		key   string
		value string
	}{
		{
			key:   "slate_session",
			value: SampleSnapshotJSON(),
		},
		{
			key:   "slate_session_backup_20250601_100000",
			value: SampleSnapshotJSON(),
		},
		{
			key:   "slate_session_backup_20250602_090000",
			value: SampleSnapshotJSON(),
		},
	}

	for _, entry := range entries {
		InsertEntry(t, db, entry.key, entry.value)
	}

	return db
}

// InsertEntry inserts a key-value pair into the store table
func InsertEntry(t *testing.T, db *sql.DB, key, value string) {
	t.Helper()
	insertSQL := "INSERT INTO slateKV (key, value) VALUES (?, ?)"
	if _, err := db.Exec(insertSQL, key, value); err != nil {
		t.Fatalf("Failed to insert entry: %v", err)
	}
}
