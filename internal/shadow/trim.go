package shadow

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"
)

// Trim rewrites the fish history file at path to keep only the newest
// maxEntries entries. A maxEntries of 0 or less means unbounded. Files
// at or under the bound are left untouched.
func Trim(path string, maxEntries int) error {
	if maxEntries <= 0 {
		return nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read fish history: %w", err)
	}

	// Anything before the first marker is dropped when a trim happens
	parts := strings.Split(string(content), entryMarker)
	entries := parts[1:]
	if len(entries) <= maxEntries {
		return nil
	}

	slog.Info("trimming fish history file",
		"from", len(entries),
		"to", maxEntries)

	keep := entries[len(entries)-maxEntries:]
	var sb strings.Builder
	sb.Grow(len(content))
	for _, entry := range keep {
		sb.WriteString(entryMarker)
		sb.WriteString(entry)
	}

	if err := os.WriteFile(path, []byte(sb.String()), 0o600); err != nil {
		return fmt.Errorf("write trimmed fish history: %w", err)
	}
	return nil
}
