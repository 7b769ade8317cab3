package config

import (
	"fmt"
	"strings"

	"github.com/grovetools/presets/errors"
	"github.com/grovetools/presets/pkg/fsys"
)

var knownThemes = map[string]bool{
	"":         true,
	"kanagawa": true,
	"gruvbox":  true,
	"terminal": true,
}

var knownKeymaps = map[string]bool{
	"":       true,
	"vim":    true,
	"emacs":  true,
	"arrows": true,
}

// Validate checks the configuration for semantic errors the schema cannot
// express and returns one error listing every problem found.
func (c *Config) Validate() error {
	var problems []string

	if strings.ContainsAny(c.Editor.NewPresetName, "\n\r") {
		problems = append(problems, "editor.new_preset_name must be a single line")
	}
	if c.Editor.WatchDebounceMs < 0 {
		problems = append(problems, fmt.Sprintf("editor.watch_debounce_ms must be >= 0; got %d", c.Editor.WatchDebounceMs))
	}
	if !knownKeymaps[c.Editor.Keymap] {
		problems = append(problems, fmt.Sprintf("editor.keymap must be one of vim, emacs, arrows; got %q", c.Editor.Keymap))
	}
	for action, keys := range c.Editor.Keys {
		if len(keys) == 0 {
			problems = append(problems, fmt.Sprintf("editor.keys.%s needs at least one key", action))
		}
	}
	if _, err := fsys.NewFilter(c.Import.Patterns); err != nil {
		problems = append(problems, fmt.Sprintf("import.patterns: %v", err))
	}
	theme := strings.ToLower(strings.TrimSpace(c.Theme))
	if base, _, _ := strings.Cut(theme, "-"); !knownThemes[base] {
		problems = append(problems, fmt.Sprintf("theme must be one of kanagawa, gruvbox, terminal; got %q", c.Theme))
	}

	if len(problems) > 0 {
		return errors.ConfigInvalid(strings.Join(problems, "; ")).
			WithDetail("problems", problems)
	}
	return nil
}
