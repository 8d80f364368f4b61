package shadow

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/Dronakurl/atuin/internal/history"
)

// Append writes one record to the fish history file at path, creating
// the file and its parent directory if needed, then trims the file to
// maxEntries. The entry goes out in a single write under an exclusive
// lock, so concurrent appenders cannot interleave lines.
//
// Append does not check whether the record is already present; that is
// the caller's job.
func Append(rec history.Record, path string, maxEntries int) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create fish history directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("open fish history file: %w", err)
	}

	if err := lockExclusive(f); err != nil {
		f.Close()
		return fmt.Errorf("lock fish history file: %w", err)
	}

	if _, err := f.WriteString(Format(rec)); err != nil {
		f.Close()
		return fmt.Errorf("write fish history entry: %w", err)
	}

	if err := f.Sync(); err != nil {
		f.Close()
		return fmt.Errorf("sync fish history file: %w", err)
	}

	// Close releases the lock
	if err := f.Close(); err != nil {
		return fmt.Errorf("close fish history file: %w", err)
	}

	return Trim(path, maxEntries)
}
