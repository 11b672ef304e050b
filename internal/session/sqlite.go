package session

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"
)

// kvTable is the key/value table sessions are stored in.
const kvTable = "slateKV"

// SQLiteStore persists sessions in a sqlite key/value table, one row per
// session or backup key.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLiteStore opens or creates the sqlite database at path and makes
// sure the key/value table exists. Parent directories are created as
// needed.
func OpenSQLiteStore(path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, &StoreError{Op: "open", Key: path, Err: err}
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, &StoreError{Op: "open", Key: path, Err: err}
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, &StoreError{Op: "open", Key: path, Err: err}
	}
	store := &SQLiteStore{db: db}
	if err := store.init(); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

// NewSQLiteStore wraps an existing database handle. The caller keeps
// ownership of the handle.
func NewSQLiteStore(db *sql.DB) (*SQLiteStore, error) {
	store := &SQLiteStore{db: db}
	if err := store.init(); err != nil {
		return nil, err
	}
	return store, nil
}

func (s *SQLiteStore) init() error {
	query := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (key TEXT PRIMARY KEY, value TEXT NOT NULL)", kvTable)
	if _, err := s.db.Exec(query); err != nil {
		return &StoreError{Op: "init", Key: kvTable, Err: err}
	}
	return nil
}

func (s *SQLiteStore) Get(key string) (string, bool, error) {
	query := fmt.Sprintf("SELECT value FROM %s WHERE key = ?", kvTable)
	var value string
	err := s.db.QueryRow(query, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, &StoreError{Op: "get", Key: key, Err: err}
	}
	return value, true, nil
}

func (s *SQLiteStore) Put(key, value string) error {
	query := fmt.Sprintf(
		"INSERT INTO %s (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
		kvTable)
	if _, err := s.db.Exec(query, key, value); err != nil {
		return &StoreError{Op: "put", Key: key, Err: err}
	}
	return nil
}

func (s *SQLiteStore) Delete(key string) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE key = ?", kvTable)
	if _, err := s.db.Exec(query, key); err != nil {
		return &StoreError{Op: "delete", Key: key, Err: err}
	}
	return nil
}

func (s *SQLiteStore) Keys(prefix string) ([]string, error) {
	query := fmt.Sprintf("SELECT key FROM %s WHERE key LIKE ? ORDER BY key", kvTable)
	rows, err := s.db.Query(query, prefix+"%")
	if err != nil {
		return nil, &StoreError{Op: "keys", Key: prefix, Err: err}
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, &StoreError{Op: "keys", Key: prefix, Err: err}
		}
		// LIKE reads _ and % in the prefix as wildcards, so the query
		// over-matches; keep literal prefix matches only.
		if !strings.HasPrefix(key, prefix) {
			continue
		}
		keys = append(keys, key)
	}
	if err := rows.Err(); err != nil {
		return nil, &StoreError{Op: "keys", Key: prefix, Err: err}
	}
	return keys, nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
