package cli

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/Dronakurl/atuin/internal/config"
	"github.com/Dronakurl/atuin/internal/history"
	"github.com/Dronakurl/atuin/internal/store"
)

// testEnv points a command test at a config file whose database and
// fish history paths all live under a fresh temp dir.
type testEnv struct {
	Config string
	DB     string
	Fish   string
}

// newTestEnv writes a config file and returns the paths it references.
// Fish sync starts disabled like the real defaults; tests opt in via
// mutate.
func newTestEnv(t *testing.T, mutate func(*config.Settings)) testEnv {
	t.Helper()
	dir := t.TempDir()

	env := testEnv{
		Config: filepath.Join(dir, "config.yaml"),
		DB:     filepath.Join(dir, "history.db"),
		Fish:   filepath.Join(dir, "fish_history"),
	}

	settings := config.Default()
	settings.DBPath = env.DB
	settings.LogLevel = "error"
	settings.FishSync.HistoryPath = env.Fish
	if mutate != nil {
		mutate(&settings)
	}

	data, err := yaml.Marshal(settings)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(env.Config, data, 0o600))
	return env
}

// seedStore saves records straight into the database behind env.
func seedStore(t *testing.T, env testEnv, recs ...history.Record) {
	t.Helper()
	st, err := store.Open(env.DB)
	require.NoError(t, err)
	defer func() { require.NoError(t, st.Close()) }()

	for _, rec := range recs {
		require.NoError(t, st.Save(context.Background(), rec))
	}
}

// storeRecords reads back everything in the database, oldest first.
func storeRecords(t *testing.T, env testEnv) []history.Record {
	t.Helper()
	st, err := store.Open(env.DB)
	require.NoError(t, err)
	defer func() { require.NoError(t, st.Close()) }()

	recs, err := st.List(context.Background(), store.Filter{})
	require.NoError(t, err)
	return recs
}
