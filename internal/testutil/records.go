package testutil

import (
	"fmt"
	"time"

	"github.com/Dronakurl/atuin/internal/history"
)

// Record creates a history record with deterministic filler fields.
//
// Only the identity triple (id, timestamp, command) varies per test;
// duration, exit code, cwd, session, and hostname are fixed so golden
// output and assertions stay stable across runs.
func Record(id string, timestamp int64, command string) history.Record {
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

// SequentialID returns a UUID-shaped id whose tail is n.
//
// Sequential ids sort in creation order, like real UUIDv7 values, which
// keeps ordering assertions deterministic:
//
//	SequentialID(1) == "00000000-0000-0000-0000-000000000001"
func SequentialID(n int) string {
	return fmt.Sprintf("00000000-0000-0000-0000-%012d", n)
}
