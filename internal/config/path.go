package config

import (
	"os"
	"path/filepath"
	"strings"
)

// DefaultPath returns the default config file location.
func DefaultPath() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// ConfigDir returns the directory holding the config file.
// ATUIN_CONFIG_DIR overrides the platform default.
func ConfigDir() string {
	if dir := os.Getenv("ATUIN_CONFIG_DIR"); dir != "" {
		return dir
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return filepath.Join(home(), ".config", "atuin")
	}
	return filepath.Join(base, "atuin")
}

// DataDir returns the directory holding the database.
// Resolution order: ATUIN_DATA_DIR, XDG_DATA_HOME, ~/.local/share/atuin.
func DataDir() string {
	if dir := os.Getenv("ATUIN_DATA_DIR"); dir != "" {
		return dir
	}
	if base := os.Getenv("XDG_DATA_HOME"); base != "" {
		return filepath.Join(base, "atuin")
	}
	return filepath.Join(home(), ".local", "share", "atuin")
}

// ExpandTilde resolves a leading ~ to the user's home directory.
// Other paths, including ~user forms, are returned unchanged.
func ExpandTilde(path string) string {
	if path == "~" {
		return home()
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(home(), path[2:])
	}
	return path
}

func home() string {
	h, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return h
}
