// Package config loads and validates runtime settings.
//
// Settings come from three layers, lowest precedence first: built-in
// defaults, the YAML config file, and ATUIN_* environment variables.
// A missing config file is not an error; defaults apply.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Settings holds the full runtime configuration.
type Settings struct {
	DBPath   string   `yaml:"db_path"`
	LogLevel string   `yaml:"log_level"`
	FishSync FishSync `yaml:"fish_sync"`
}

// FishSync configures mirroring of saved commands into the fish shell
// history file.
type FishSync struct {
	// Enabled turns the mirror on. Off by default; every sync entry
	// point is a no-op while this is false.
	Enabled bool `yaml:"enabled"`

	// HistoryPath is the fish history file location. A leading ~ is
	// expanded at use, not at load, so the value stays portable.
	HistoryPath string `yaml:"history_path"`

	// MaxEntries bounds the fish history file. 0 means unbounded.
	MaxEntries int `yaml:"max_entries"`

	// SyncOnStartup runs a full reconcile when the daemon starts.
	SyncOnStartup bool `yaml:"sync_on_startup"`

	// SyncAllOnCLI lets plain "atuin sync" run a full reconcile.
	SyncAllOnCLI bool `yaml:"sync_all_on_cli"`

	// SyncAllOnDaemon enables the daemon's scheduled reconcile.
	SyncAllOnDaemon bool `yaml:"sync_all_on_daemon"`

	// Schedule is a five-field cron expression for the daemon reconcile.
	Schedule string `yaml:"schedule"`
}

// Default returns the settings used when no config file exists.
func Default() Settings {
	return Settings{
		DBPath:   filepath.Join(DataDir(), "history.db"),
		LogLevel: "info",
		FishSync: FishSync{
			Enabled:         false,
			HistoryPath:     "~/.local/share/fish/fish_history",
			MaxEntries:      10000,
			SyncOnStartup:   false,
			SyncAllOnCLI:    false,
			SyncAllOnDaemon: false,
			Schedule:        "*/15 * * * *",
		},
	}
}

// Load reads settings from path. A missing file yields defaults. Fields
// absent from the file keep their default values; fields present in the
// file win, including explicit zero values. Environment variables
// override both.
func Load(path string) (Settings, error) {
	settings := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			applyEnv(&settings)
			return settings, nil
		}
		return Settings{}, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &settings); err != nil {
		return Settings{}, fmt.Errorf("parse config %s: %w", path, err)
	}

	applyEnv(&settings)
	return settings, nil
}

// applyEnv overrides settings from ATUIN_* environment variables.
func applyEnv(s *Settings) {
	if v := os.Getenv("ATUIN_DB_PATH"); v != "" {
		s.DBPath = v
	}
	if v := os.Getenv("ATUIN_LOG_LEVEL"); v != "" {
		s.LogLevel = v
	}
}
