// Package history defines the history record type shared by the store,
// the CLI and the fish sync layer.
package history

import (
	"time"

	"github.com/google/uuid"
)

// Record is a single executed shell command.
//
// Records are immutable once created. The identifier is a UUIDv7 string:
// time-sortable and globally unique across machines, so records produced
// on different hosts never collide and sort roughly by creation time.
//
// Timestamp is wall-clock time of execution. Remote records can carry
// timestamps older than anything local, and clocks can run backwards, so
// nothing may assume timestamps arrive in order.
type Record struct {
	ID        string     `json:"id"`
	Timestamp time.Time  `json:"timestamp"`
	Duration  int64      `json:"duration"` // nanoseconds
	Exit      int        `json:"exit"`
	Command   string     `json:"command"`
	CWD       string     `json:"cwd"`
	Session   string     `json:"session"`
	Hostname  string     `json:"hostname"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
}

// New creates a record for a command that just ran, assigning a fresh
// UUIDv7 identifier and the current time.
//
// Panics if UUID generation fails (should never happen in practice).
func New(command, cwd, session, hostname string) Record {
	return Record{
		ID:        uuid.Must(uuid.NewV7()).String(),
		Timestamp: time.Now(),
		Command:   command,
		CWD:       cwd,
		Session:   session,
		Hostname:  hostname,
	}
}
