package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_ValidConfig(t *testing.T) {
	content := `
db_path: /var/lib/atuin/history.db
log_level: debug
fish_sync:
  enabled: true
  history_path: ~/.local/share/fish/fish_history
  max_entries: 500
  sync_on_startup: true
  sync_all_on_cli: false
  sync_all_on_daemon: true
  schedule: "*/5 * * * *"
`
	problems, err := Validate([]byte(content))
	require.NoError(t, err)
	assert.Empty(t, problems)
}

func TestValidate_EmptyConfig(t *testing.T) {
	problems, err := Validate([]byte(""))
	require.NoError(t, err)
	assert.Empty(t, problems)

	problems, err = Validate([]byte("\n\n  \n"))
	require.NoError(t, err)
	assert.Empty(t, problems)
}

func TestValidate_UnknownKey(t *testing.T) {
	content := `
fish_synk:
  enabled: true
`
	problems, err := Validate([]byte(content))
	require.NoError(t, err)
	require.NotEmpty(t, problems, "misspelled key must be rejected")
	assert.Contains(t, problemText(problems), "fish_synk")
}

func TestValidate_UnknownNestedKey(t *testing.T) {
	content := `
fish_sync:
  enabled: true
  max_entrees: 100
`
	problems, err := Validate([]byte(content))
	require.NoError(t, err)
	require.NotEmpty(t, problems)
	assert.Contains(t, problemText(problems), "max_entrees")
}

func TestValidate_BadLogLevel(t *testing.T) {
	problems, err := Validate([]byte("log_level: verbose\n"))
	require.NoError(t, err)
	require.NotEmpty(t, problems)
	assert.Contains(t, problemText(problems), "log_level")
}

func TestValidate_NegativeMaxEntries(t *testing.T) {
	content := `
fish_sync:
  max_entries: -5
`
	problems, err := Validate([]byte(content))
	require.NoError(t, err)
	require.NotEmpty(t, problems)
	assert.Contains(t, problemText(problems), "max_entries")
}

func TestValidate_WrongType(t *testing.T) {
	content := `
fish_sync:
  enabled: "definitely"
`
	problems, err := Validate([]byte(content))
	require.NoError(t, err)
	assert.NotEmpty(t, problems)
}

func TestValidate_MalformedYAML(t *testing.T) {
	problems, err := Validate([]byte("fish_sync: [unclosed"))
	require.NoError(t, err)
	require.NotEmpty(t, problems)
	assert.Contains(t, problemText(problems), "yaml")
}

func TestValidateFile_MissingFile(t *testing.T) {
	problems, err := ValidateFile(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Empty(t, problems)
}

func TestValidateFile_ValidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log_level: warn\n"), 0o600))

	problems, err := ValidateFile(path)
	require.NoError(t, err)
	assert.Empty(t, problems)
}

// problemText flattens problems for substring assertions.
func problemText(problems []Problem) string {
	var sb strings.Builder
	for _, p := range problems {
		sb.WriteString(p.String())
		sb.WriteString("\n")
	}
	return sb.String()
}
