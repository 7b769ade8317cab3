// Package paths provides XDG-compliant path resolution for the preset editor.
//
// Resolution order:
// 1. PRESETS_HOME (portable root) → $PRESETS_HOME/{config,data,state,cache}
// 2. XDG env vars → $XDG_*_HOME/presets
// 3. Platform defaults → ~/.config/presets, ~/.local/share/presets, etc.
package paths

import (
	"os"
	"path/filepath"
)

// AppName is the directory name used under each XDG base directory.
const AppName = "presets"

// HomeEnv names the portable-root override.
const HomeEnv = "PRESETS_HOME"

// baseDir resolves one XDG base directory. sub is the directory used under
// PRESETS_HOME, xdgEnv the XDG variable, and fallback the path under the
// user's home directory.
func baseDir(sub, xdgEnv string, fallback ...string) string {
	if home := os.Getenv(HomeEnv); home != "" {
		return filepath.Join(home, sub)
	}
	if xdg := os.Getenv(xdgEnv); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	if homeDir, err := os.UserHomeDir(); err == nil {
		parts := append([]string{homeDir}, fallback...)
		return filepath.Join(append(parts, AppName)...)
	}
	return ""
}

// ConfigDir returns the configuration directory.
// Used for presets.yml / presets.toml.
func ConfigDir() string {
	return baseDir("config", "XDG_CONFIG_HOME", ".config")
}

// DataDir returns the data directory.
// Used for app_config.json and editor_settings.json.
func DataDir() string {
	return baseDir("data", "XDG_DATA_HOME", ".local", "share")
}

// StateDir returns the state directory.
// Used for logs.
func StateDir() string {
	return baseDir("state", "XDG_STATE_HOME", ".local", "state")
}

// CacheDir returns the cache directory.
func CacheDir() string {
	return baseDir("cache", "XDG_CACHE_HOME", ".cache")
}

// LogDir returns the directory log files are written to.
func LogDir() string {
	state := StateDir()
	if state == "" {
		return ""
	}
	return filepath.Join(state, "logs")
}

// EnsureDirs creates all application directories if they don't exist.
func EnsureDirs() error {
	dirs := []string{
		ConfigDir(),
		DataDir(),
		StateDir(),
		CacheDir(),
	}

	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return nil
}
