package shadow

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
)

// SyncedIDs returns the set of record ids already present in the fish
// history file at path. A missing file yields an empty set.
func SyncedIDs(path string) (map[string]struct{}, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return map[string]struct{}{}, nil
		}
		return nil, fmt.Errorf("read fish history: %w", err)
	}

	ids := make(map[string]struct{})
	for _, line := range strings.Split(string(content), "\n") {
		if id, ok := parseMeta(line); ok {
			ids[id] = struct{}{}
		}
	}
	return ids, nil
}

// LastTimestamp returns the timestamp of the newest countable entry in
// the fish history file at path. Scans backward and skips when-lines
// that do not parse as a bare integer. The bool is false when the file
// has no countable entry.
func LastTimestamp(path string) (int64, bool, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("read fish history: %w", err)
	}

	lines := strings.Split(string(content), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if ts, ok := parseWhen(lines[i]); ok {
			return ts, true, nil
		}
	}
	return 0, false, nil
}

// nativeKey identifies an entry by its visible content. Entries fish
// writes itself carry no uuid comment, so they can only be matched this
// way.
type nativeKey struct {
	cmd  string
	when int64
}

// NativeEntries returns the (command, timestamp) pairs of every entry
// in the fish history file at path, uuid-tagged or not. Commands are
// taken in their single-line file form with surrounding whitespace
// trimmed; the timestamp must sit on the line immediately after the
// command. Fish's own "when: 123" spelling (space after the colon) is
// accepted here.
func NativeEntries(path string) (map[nativeKey]struct{}, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return map[nativeKey]struct{}{}, nil
		}
		return nil, fmt.Errorf("read fish history: %w", err)
	}

	entries := make(map[nativeKey]struct{})
	lines := strings.Split(string(content), "\n")
	for i, line := range lines {
		rest, ok := strings.CutPrefix(strings.TrimSpace(line), entryMarker)
		if !ok {
			continue
		}
		cmd := strings.TrimSpace(rest)

		if i+1 >= len(lines) {
			continue
		}
		value, ok := strings.CutPrefix(strings.TrimSpace(lines[i+1]), "when:")
		if !ok {
			continue
		}
		when, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
		if err != nil {
			continue
		}

		entries[nativeKey{cmd: cmd, when: when}] = struct{}{}
	}
	return entries, nil
}

// CountEntries returns the number of entries in the fish history file
// at path. A missing file counts zero.
func CountEntries(path string) (int, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return 0, nil
		}
		return 0, fmt.Errorf("read fish history: %w", err)
	}

	count := 0
	for _, line := range strings.Split(string(content), "\n") {
		if strings.HasPrefix(line, entryMarker) {
			count++
		}
	}
	return count, nil
}
