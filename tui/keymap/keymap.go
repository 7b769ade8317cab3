// Package keymap defines the key bindings of the preset editor, the named
// presets they come in, and the config-driven overrides applied on top.
package keymap

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
)

// KeyMap contains every binding the editor reacts to outside of text input.
type KeyMap struct {
	// Navigation
	Up        key.Binding
	Down      key.Binding
	PageUp    key.Binding
	PageDown  key.Binding
	Top       key.Binding // gg sequence
	Bottom    key.Binding
	FocusNext key.Binding

	// Presets
	Add     key.Binding
	Rename  key.Binding
	Delete  key.Binding // dd sequence
	AddFile key.Binding

	// Draft
	Edit   key.Binding
	Save   key.Binding
	Revert key.Binding

	// Files
	Publish key.Binding
	Target  key.Binding
	Import  key.Binding
	Export  key.Binding
	Reload  key.Binding

	// View
	ToggleTree key.Binding

	// Prompts and system
	Confirm key.Binding
	Cancel  key.Binding
	Help    key.Binding
	Quit    key.Binding
}

// Preset names accepted by Load.
const (
	PresetVim    = "vim"
	PresetEmacs  = "emacs"
	PresetArrows = "arrows"
)

// DefaultVim returns the default vim-style keymap.
func DefaultVim() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/up", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/down", "down"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("ctrl+u", "pgup"),
			key.WithHelp("C-u", "page up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("ctrl+d", "pgdown"),
			key.WithHelp("C-d", "page down"),
		),
		Top: key.NewBinding(
			key.WithKeys("gg"),
			key.WithHelp("gg", "first preset"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("G"),
			key.WithHelp("G", "last preset"),
		),
		FocusNext: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "switch pane"),
		),

		Add: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add preset"),
		),
		Rename: key.NewBinding(
			key.WithKeys("R"),
			key.WithHelp("R", "rename"),
		),
		Delete: key.NewBinding(
			key.WithKeys("dd"),
			key.WithHelp("dd", "delete"),
		),
		AddFile: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "add from file"),
		),

		Edit: key.NewBinding(
			key.WithKeys("e", "enter"),
			key.WithHelp("e", "edit"),
		),
		Save: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("C-s", "save draft"),
		),
		Revert: key.NewBinding(
			key.WithKeys("ctrl+z"),
			key.WithHelp("C-z", "revert draft"),
		),

		Publish: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "publish"),
		),
		Target: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "set target"),
		),
		Import: key.NewBinding(
			key.WithKeys("i"),
			key.WithHelp("i", "import"),
		),
		Export: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "export"),
		),
		Reload: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("C-r", "reload"),
		),

		ToggleTree: key.NewBinding(
			key.WithKeys("v"),
			key.WithHelp("v", "tree view"),
		),

		Confirm: key.NewBinding(
			key.WithKeys("enter", "y"),
			key.WithHelp("enter", "confirm"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// DefaultEmacs returns an emacs-style keymap.
func DefaultEmacs() KeyMap {
	k := DefaultVim()
	k.Up = key.NewBinding(
		key.WithKeys("ctrl+p", "up"),
		key.WithHelp("C-p", "up"),
	)
	k.Down = key.NewBinding(
		key.WithKeys("ctrl+n", "down"),
		key.WithHelp("C-n", "down"),
	)
	k.PageUp = key.NewBinding(
		key.WithKeys("alt+v", "pgup"),
		key.WithHelp("M-v", "page up"),
	)
	k.PageDown = key.NewBinding(
		key.WithKeys("ctrl+v", "pgdown"),
		key.WithHelp("C-v", "page down"),
	)
	k.Top = key.NewBinding(
		key.WithKeys("alt+<", "home"),
		key.WithHelp("M-<", "first preset"),
	)
	k.Bottom = key.NewBinding(
		key.WithKeys("alt+>", "end"),
		key.WithHelp("M->", "last preset"),
	)
	k.Delete = key.NewBinding(
		key.WithKeys("ctrl+k"),
		key.WithHelp("C-k", "delete"),
	)
	k.Revert = key.NewBinding(
		key.WithKeys("ctrl+_"),
		key.WithHelp("C-_", "revert draft"),
	)
	k.Cancel = key.NewBinding(
		key.WithKeys("ctrl+g", "esc"),
		key.WithHelp("C-g", "cancel"),
	)
	return k
}

// DefaultArrows returns a keymap for users who navigate with arrow keys only.
func DefaultArrows() KeyMap {
	k := DefaultVim()
	k.Up = key.NewBinding(
		key.WithKeys("up"),
		key.WithHelp("up", "up"),
	)
	k.Down = key.NewBinding(
		key.WithKeys("down"),
		key.WithHelp("down", "down"),
	)
	k.PageUp = key.NewBinding(
		key.WithKeys("pgup", "shift+up"),
		key.WithHelp("PgUp", "page up"),
	)
	k.PageDown = key.NewBinding(
		key.WithKeys("pgdown", "shift+down"),
		key.WithHelp("PgDn", "page down"),
	)
	k.Top = key.NewBinding(
		key.WithKeys("home"),
		key.WithHelp("Home", "first preset"),
	)
	k.Bottom = key.NewBinding(
		key.WithKeys("end"),
		key.WithHelp("End", "last preset"),
	)
	k.Delete = key.NewBinding(
		key.WithKeys("delete"),
		key.WithHelp("Del", "delete"),
	)
	return k
}

// Load returns the named preset with overrides applied. Unknown preset
// names fall back to vim. Override keys that match no action are returned
// so the caller can report them.
func Load(preset string, overrides map[string][]string) (KeyMap, []string) {
	var k KeyMap
	switch strings.ToLower(strings.TrimSpace(preset)) {
	case PresetEmacs:
		k = DefaultEmacs()
	case PresetArrows:
		k = DefaultArrows()
	default:
		k = DefaultVim()
	}
	unknown := ApplyOverrides(&k, overrides)
	return k, unknown
}

// Sequences returns the bindings that may span more than one key press.
func (k KeyMap) Sequences() []key.Binding {
	return []key.Binding{k.Top, k.Delete}
}

// ShortHelp returns the bindings shown in the status line.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Edit, k.Save, k.Add, k.Publish, k.Help, k.Quit}
}

// Sections groups every binding for the full help view.
func (k KeyMap) Sections() []Section {
	return []Section{
		NavigationSection(k.Up, k.Down, k.PageUp, k.PageDown, k.Top, k.Bottom, k.FocusNext),
		NewSection(SectionPresets, k.Add, k.Rename, k.Delete, k.AddFile),
		NewSection(SectionDraft, k.Edit, k.Save, k.Revert),
		NewSection(SectionFiles, k.Publish, k.Target, k.Import, k.Export, k.Reload),
		ViewSection(k.ToggleTree),
		SystemSection(k.Help, k.Quit),
	}
}

// FullHelp returns Sections as plain binding groups.
func (k KeyMap) FullHelp() [][]key.Binding {
	sections := k.Sections()
	groups := make([][]key.Binding, len(sections))
	for i, s := range sections {
		groups[i] = s.Bindings
	}
	return groups
}
