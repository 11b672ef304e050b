package session

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// DefaultSessionKey is used when the caller does not pick one.
const DefaultSessionKey = "slate_session"

// backupTimeFormat is the timestamp suffix on backup keys. Lexical order
// of keys in this format matches chronological order.
const backupTimeFormat = "20060102_150405"

// Manager saves, restores and backs up sessions in a Store under a fixed
// session key. Backups live next to the session under timestamped keys.
type Manager struct {
	store Store
	key   string
	now   func() time.Time
}

// NewManager returns a manager for the given store and session key. An
// empty key selects DefaultSessionKey.
func NewManager(store Store, key string) *Manager {
	if key == "" {
		key = DefaultSessionKey
	}
	return &Manager{store: store, key: key, now: time.Now}
}

// Key returns the live session key.
func (m *Manager) Key() string {
	return m.key
}

// Save writes the snapshot under the live session key.
func (m *Manager) Save(s *Snapshot) error {
	data, err := Encode(s)
	if err != nil {
		return err
	}
	if err := m.store.Put(m.key, string(data)); err != nil {
		return err
	}
	log.Debug().Str("key", m.key).Int("bytes", len(data)).Msg("session saved")
	return nil
}

// Load reads the snapshot stored under the live session key. The second
// return value reports whether one existed.
func (m *Manager) Load() (*Snapshot, bool, error) {
	return m.load(m.key)
}

func (m *Manager) load(key string) (*Snapshot, bool, error) {
	data, ok, err := m.store.Get(key)
	if err != nil || !ok {
		return nil, false, err
	}
	snap, err := Decode([]byte(data))
	if err != nil {
		return nil, false, err
	}
	return snap, true, nil
}

// Clear removes the stored session. Backups are kept.
func (m *Manager) Clear() error {
	return m.store.Delete(m.key)
}

// CreateBackup stores the snapshot under a timestamped backup key and
// returns the key.
func (m *Manager) CreateBackup(s *Snapshot) (string, error) {
	data, err := Encode(s)
	if err != nil {
		return "", err
	}
	key := m.backupPrefix() + m.now().Format(backupTimeFormat)
	if err := m.store.Put(key, string(data)); err != nil {
		return "", err
	}
	log.Debug().Str("key", key).Msg("backup created")
	return key, nil
}

// ListBackups returns the backup keys for this session, newest first.
func (m *Manager) ListBackups() ([]string, error) {
	keys, err := m.store.Keys(m.backupPrefix())
	if err != nil {
		return nil, err
	}
	sort.Sort(sort.Reverse(sort.StringSlice(keys)))
	return keys, nil
}

// RestoreBackup loads the snapshot stored under the given backup key and
// writes it back to the live session key.
func (m *Manager) RestoreBackup(key string) (*Snapshot, error) {
	if !strings.HasPrefix(key, m.backupPrefix()) {
		return nil, fmt.Errorf("%q is not a backup of session %q", key, m.key)
	}
	snap, ok, err := m.load(key)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("backup %q not found", key)
	}
	if err := m.Save(snap); err != nil {
		return nil, err
	}
	log.Debug().Str("key", key).Msg("backup restored")
	return snap, nil
}

// DeleteBackup removes a backup key. Only keys carrying this session's
// backup prefix are accepted, so the live session cannot be deleted by
// mistake.
func (m *Manager) DeleteBackup(key string) error {
	if !strings.HasPrefix(key, m.backupPrefix()) {
		return fmt.Errorf("%q is not a backup of session %q", key, m.key)
	}
	return m.store.Delete(key)
}

func (m *Manager) backupPrefix() string {
	return m.key + "_backup_"
}

// Stats summarizes a stored session.
type Stats struct {
	CodeBlocks           int    `json:"code_blocks"`
	TotalLines           int    `json:"total_lines"`
	ExecutionCount       int    `json:"execution_count"`
	SuccessfulExecutions int    `json:"successful_executions"`
	SessionStart         string `json:"session_start"`
	LastActivity         string `json:"last_activity"`
}

// Stats computes summary numbers for the stored session. A missing
// session yields zero stats.
func (m *Manager) Stats() (*Stats, error) {
	snap, ok, err := m.Load()
	if err != nil {
		return nil, err
	}
	if !ok {
		return &Stats{}, nil
	}
	return SnapshotStats(snap), nil
}

// SnapshotStats computes summary numbers for a snapshot.
func SnapshotStats(snap *Snapshot) *Stats {
	st := &Stats{}
	st.CodeBlocks = len(snap.CodeHistory)
	for _, code := range snap.CodeHistory {
		// A trailing newline does not open another line, and empty
		// code has none.
		if code == "" {
			continue
		}
		st.TotalLines += strings.Count(strings.TrimSuffix(code, "\n"), "\n") + 1
	}
	st.ExecutionCount = len(snap.OutputHistory)
	for _, rec := range snap.OutputHistory {
		if rec.Success {
			st.SuccessfulExecutions++
		}
	}
	st.LastActivity = snap.Timestamp
	if len(snap.OutputHistory) > 0 {
		st.SessionStart = snap.OutputHistory[0].Timestamp
		st.LastActivity = snap.OutputHistory[len(snap.OutputHistory)-1].Timestamp
	}
	return st
}
