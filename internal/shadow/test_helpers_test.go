package shadow

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// writeHistory writes content to a fish_history file in a fresh temp
// directory and returns its path.
func writeHistory(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fish_history")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

// missingHistory returns a path in a fresh temp directory with no file
// behind it.
func missingHistory(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "fish_history")
}
