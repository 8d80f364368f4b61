package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/Dronakurl/atuin/internal/history"
)

// createTestStore creates a store backed by a temp file for testing.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestRecord creates a test record with minimal required fields.
func createTestRecord(id string, timestamp int64, command string) history.Record {
	return history.Record{
		ID:        id,
		Timestamp: time.Unix(timestamp, 0),
		Duration:  100,
		Exit:      0,
		Command:   command,
		CWD:       "/home/user",
		Session:   "test-session",
		Hostname:  "localhost",
	}
}
