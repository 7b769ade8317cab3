package config

import (
	"fmt"
	"strings"

	"github.com/mitchellh/mapstructure"
)

// DefaultVersion is written by SetDefaults when the file names none.
const DefaultVersion = "1.0"

// Config is the optional application configuration read from presets.yml
// (or presets.yaml / presets.toml) in the configuration directory.
type Config struct {
	Version string       `yaml:"version,omitempty" toml:"version,omitempty" jsonschema:"description=Configuration version (e.g. '1.0')"`
	DataDir string       `yaml:"data_dir,omitempty" toml:"data_dir,omitempty" jsonschema:"description=Directory holding app_config.json and editor_settings.json"`
	Theme   string       `yaml:"theme,omitempty" toml:"theme,omitempty" jsonschema:"description=TUI color theme: kanagawa, gruvbox or terminal"`
	Editor  EditorConfig `yaml:"editor,omitempty" toml:"editor,omitempty" jsonschema:"description=Editor behaviour"`
	Import  ImportConfig `yaml:"import,omitempty" toml:"import,omitempty" jsonschema:"description=File picker settings used for import and add-from-file"`

	// Extensions captures all other top-level keys for extensibility.
	Extensions map[string]interface{} `yaml:",inline" toml:"-" jsonschema:"-"`
}

// EditorConfig controls the interactive editor.
type EditorConfig struct {
	// NewPresetName is the name hint used by the "add" command.
	NewPresetName string `yaml:"new_preset_name,omitempty" toml:"new_preset_name,omitempty" jsonschema:"description=Name hint for new presets (default NewPreset)"`
	// ConfirmDelete asks before deleting a preset. Defaults to true.
	ConfirmDelete *bool `yaml:"confirm_delete,omitempty" toml:"confirm_delete,omitempty" jsonschema:"description=Ask for confirmation before deleting a preset (default true)"`
	// WatchFiles reloads when the store files change on disk. Defaults to true.
	WatchFiles *bool `yaml:"watch_files,omitempty" toml:"watch_files,omitempty" jsonschema:"description=Offer to reload when the preset files change on disk (default true)"`
	// WatchDebounceMs collapses bursts of file events.
	WatchDebounceMs int `yaml:"watch_debounce_ms,omitempty" toml:"watch_debounce_ms,omitempty" jsonschema:"minimum=0,description=Debounce window for file change events in milliseconds (default 200)"`
	// Keymap picks the base key bindings: vim, emacs or arrows.
	Keymap string `yaml:"keymap,omitempty" toml:"keymap,omitempty" jsonschema:"enum=vim,enum=emacs,enum=arrows,description=Base key bindings (default vim)"`
	// Keys overrides individual bindings, keyed by action in snake_case.
	//
	// Example:
	//
	//	keys:
	//	  publish: ["P", "ctrl+p"]
	Keys map[string][]string `yaml:"keys,omitempty" toml:"keys,omitempty" jsonschema:"description=Per-action key overrides, e.g. publish: [P]"`
}

// ImportConfig configures the file pickers.
type ImportConfig struct {
	// Patterns filter the files offered by pickers, e.g. ["*.json"].
	Patterns []string `yaml:"patterns,omitempty" toml:"patterns,omitempty" jsonschema:"description=File name patterns offered by the file pickers (default *.json)"`
}

// knownKeys are the top-level keys decoded into typed fields; everything
// else is kept in Extensions.
var knownKeys = map[string]bool{
	"version":  true,
	"data_dir": true,
	"theme":    true,
	"editor":   true,
	"import":   true,
}

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	cfg.SetDefaults()
	return cfg
}

// SetDefaults sets default values for configuration
func (c *Config) SetDefaults() {
	if c.Version == "" {
		c.Version = DefaultVersion
	}
	if strings.TrimSpace(c.Editor.NewPresetName) == "" {
		c.Editor.NewPresetName = "NewPreset"
	}
	if c.Editor.ConfirmDelete == nil {
		v := true
		c.Editor.ConfirmDelete = &v
	}
	if c.Editor.WatchFiles == nil {
		v := true
		c.Editor.WatchFiles = &v
	}
	if c.Editor.WatchDebounceMs == 0 {
		c.Editor.WatchDebounceMs = 200
	}
	if c.Editor.Keymap == "" {
		c.Editor.Keymap = "vim"
	}
	if len(c.Import.Patterns) == 0 {
		c.Import.Patterns = []string{"*.json"}
	}
}

// ConfirmDeleteEnabled reports whether deletes need confirmation.
func (c *Config) ConfirmDeleteEnabled() bool {
	return c.Editor.ConfirmDelete == nil || *c.Editor.ConfirmDelete
}

// WatchEnabled reports whether the store files should be watched.
func (c *Config) WatchEnabled() bool {
	return c.Editor.WatchFiles == nil || *c.Editor.WatchFiles
}

// UnmarshalExtension decodes a specific extension's configuration from the
// loaded file into the provided target struct. The target must be a pointer.
// A missing key leaves target untouched.
//
// Example:
//
//	var logCfg logging.Config
//	err := cfg.UnmarshalExtension("logging", &logCfg)
func (c *Config) UnmarshalExtension(key string, target interface{}) error {
	extensionConfig, ok := c.Extensions[key]
	if !ok {
		return nil
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:  target,
		TagName: "yaml",
	})
	if err != nil {
		return fmt.Errorf("failed to create mapstructure decoder: %w", err)
	}

	if err := decoder.Decode(extensionConfig); err != nil {
		return fmt.Errorf("failed to decode extension config for '%s': %w", key, err)
	}

	return nil
}

// decodeRaw fills c from a generic document produced by the YAML or TOML
// decoder.
func (c *Config) decodeRaw(raw map[string]interface{}) error {
	known := make(map[string]interface{}, len(raw))
	for k, v := range raw {
		if knownKeys[k] {
			known[k] = v
			continue
		}
		if c.Extensions == nil {
			c.Extensions = make(map[string]interface{})
		}
		c.Extensions[k] = v
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:      c,
		TagName:     "yaml",
		ErrorUnused: true,
	})
	if err != nil {
		return fmt.Errorf("failed to create mapstructure decoder: %w", err)
	}
	return decoder.Decode(known)
}
