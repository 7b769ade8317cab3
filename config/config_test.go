package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/grovetools/presets/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromBytesYAML(t *testing.T) {
	t.Setenv("PRESETS_TEST_DIR", "/srv/presets")

	data := []byte(`
version: "1.0"
data_dir: ${PRESETS_TEST_DIR}
theme: gruvbox
editor:
  new_preset_name: Profile
  confirm_delete: false
  keymap: emacs
  keys:
    publish: ["P", "ctrl+p"]
import:
  patterns: ["*.json", "*.preset"]
logging:
  level: debug
`)
	cfg, err := LoadFromBytes(data, FormatYAML)
	require.NoError(t, err)

	assert.Equal(t, "1.0", cfg.Version)
	assert.Equal(t, "/srv/presets", cfg.DataDir)
	assert.Equal(t, "gruvbox", cfg.Theme)
	assert.Equal(t, "Profile", cfg.Editor.NewPresetName)
	assert.False(t, cfg.ConfirmDeleteEnabled())
	assert.True(t, cfg.WatchEnabled())
	assert.Equal(t, 200, cfg.Editor.WatchDebounceMs)
	assert.Equal(t, "emacs", cfg.Editor.Keymap)
	assert.Equal(t, map[string][]string{"publish": {"P", "ctrl+p"}}, cfg.Editor.Keys)
	assert.Equal(t, []string{"*.json", "*.preset"}, cfg.Import.Patterns)
	assert.Contains(t, cfg.Extensions, "logging")

	var logCfg struct {
		Level string `yaml:"level"`
	}
	require.NoError(t, cfg.UnmarshalExtension("logging", &logCfg))
	assert.Equal(t, "debug", logCfg.Level)
}

func TestLoadFromBytesTOML(t *testing.T) {
	data := []byte(`
version = "1.0"
theme = "terminal"

[editor]
watch_files = false
watch_debounce_ms = 50
`)
	cfg, err := LoadFromBytes(data, FormatTOML)
	require.NoError(t, err)
	assert.Equal(t, "terminal", cfg.Theme)
	assert.False(t, cfg.WatchEnabled())
	assert.Equal(t, 50, cfg.Editor.WatchDebounceMs)
	assert.Equal(t, "NewPreset", cfg.Editor.NewPresetName)
	assert.Equal(t, "vim", cfg.Editor.Keymap)
}

func TestLoadFromBytesEmpty(t *testing.T) {
	cfg, err := LoadFromBytes(nil, FormatYAML)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadFromBytesInvalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"malformed yaml", "editor: [unclosed"},
		{"wrong type", "theme: 12"},
		{"unknown theme", "theme: solarized"},
		{"negative debounce", "editor:\n  watch_debounce_ms: -5"},
		{"bad pattern", "import:\n  patterns: ['[']"},
		{"unknown editor key", "editor:\n  confirm_delet: true"},
		{"unknown keymap", "editor:\n  keymap: helix"},
		{"empty key override", "editor:\n  keys:\n    publish: []"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFromBytes([]byte(tt.data), FormatYAML)
			require.Error(t, err)
			assert.Equal(t, errors.ErrCodeConfigInvalid, errors.GetCode(err))
		})
	}
}

func TestLoadFromBytesSchemaProblems(t *testing.T) {
	_, err := LoadFromBytes([]byte("theme: 12"), FormatYAML)
	pe, ok := errors.As(err)
	require.True(t, ok)
	problems, ok := pe.Details["problems"].([]string)
	require.True(t, ok)
	require.NotEmpty(t, problems)
	assert.Contains(t, problems[0], "/theme")
}

func TestLoadAndFind(t *testing.T) {
	dir := t.TempDir()

	_, err := FindConfigFile(dir)
	assert.True(t, errors.Is(err, errors.ErrCodeConfigNotFound))

	_, err = Load(filepath.Join(dir, "presets.yml"))
	assert.True(t, errors.Is(err, errors.ErrCodeConfigNotFound))

	path := filepath.Join(dir, "presets.toml")
	require.NoError(t, os.WriteFile(path, []byte(`theme = "kanagawa"`), 0o644))

	found, err := FindConfigFile(dir)
	require.NoError(t, err)
	assert.Equal(t, path, found)

	cfg, err := Load(found)
	require.NoError(t, err)
	assert.Equal(t, "kanagawa", cfg.Theme)
}

func TestLoadOrDefault(t *testing.T) {
	t.Setenv("PRESETS_HOME", t.TempDir())

	cfg, err := LoadOrDefault("", nil)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	bad := filepath.Join(t.TempDir(), "presets.yml")
	require.NoError(t, os.WriteFile(bad, []byte("theme: 1"), 0o644))
	_, err = LoadOrDefault(bad, nil)
	assert.Error(t, err)
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("PRESETS_SET", "value")

	assert.Equal(t, "a value b", expandEnvVars("a ${PRESETS_SET} b"))
	assert.Equal(t, "fallback", expandEnvVars("${PRESETS_UNSET_VAR:-fallback}"))
	assert.Equal(t, "", expandEnvVars("${PRESETS_UNSET_VAR}"))
}

func TestGenerateSchema(t *testing.T) {
	data, err := GenerateSchema()
	require.NoError(t, err)

	s := string(data)
	assert.Contains(t, s, `"new_preset_name"`)
	assert.Contains(t, s, `"watch_debounce_ms"`)
	assert.NotContains(t, s, `"Extensions"`)
}
