package jsontree

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/grovetools/presets/tui/keymap"
)

// KeyMap defines the keybindings for the JSON tree viewer.
type KeyMap struct {
	Up           key.Binding
	Down         key.Binding
	HalfPageUp   key.Binding
	HalfPageDown key.Binding
	GotoTop      key.Binding
	GotoEnd      key.Binding
	Toggle       key.Binding
	Fold         key.Binding
	ExpandAll    key.Binding
	CollapseAll  key.Binding
	Search       key.Binding
	NextResult   key.Binding
	PrevResult   key.Binding
	YankValue    key.Binding
	YankPath     key.Binding
	Back         key.Binding
}

// DefaultKeyMap returns the default keybindings for the component.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("k/↑", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("j/↓", "down"),
		),
		HalfPageUp: key.NewBinding(
			key.WithKeys("ctrl+u"),
			key.WithHelp("ctrl+u", "half page up"),
		),
		HalfPageDown: key.NewBinding(
			key.WithKeys("ctrl+d"),
			key.WithHelp("ctrl+d", "half page down"),
		),
		GotoTop: key.NewBinding(
			key.WithKeys("gg"),
			key.WithHelp("gg", "go to top"),
		),
		GotoEnd: key.NewBinding(
			key.WithKeys("G"),
			key.WithHelp("G", "go to end"),
		),
		Toggle: key.NewBinding(
			key.WithKeys(" ", "enter", "l"),
			key.WithHelp("space/l", "expand"),
		),
		Fold: key.NewBinding(
			key.WithKeys("h"),
			key.WithHelp("h", "fold"),
		),
		ExpandAll: key.NewBinding(
			key.WithKeys("zR"),
			key.WithHelp("zR", "expand all"),
		),
		CollapseAll: key.NewBinding(
			key.WithKeys("zM"),
			key.WithHelp("zM", "collapse all"),
		),
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search"),
		),
		NextResult: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "next match"),
		),
		PrevResult: key.NewBinding(
			key.WithKeys("N"),
			key.WithHelp("N", "prev match"),
		),
		YankValue: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "copy value"),
		),
		YankPath: key.NewBinding(
			key.WithKeys("Y"),
			key.WithHelp("Y", "copy path"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "v"),
			key.WithHelp("esc/v", "back"),
		),
	}
}

func (k KeyMap) sequences() []key.Binding {
	return []key.Binding{k.GotoTop, k.ExpandAll, k.CollapseAll}
}

// ShortHelp returns the short help bindings.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Search, k.YankPath, k.Back}
}

// Sections returns the bindings grouped for the help overlay.
func (k KeyMap) Sections() []keymap.Section {
	return []keymap.Section{
		keymap.NavigationSection(k.Up, k.Down, k.HalfPageUp, k.HalfPageDown, k.GotoTop, k.GotoEnd),
		keymap.NewSection("Tree", k.Toggle, k.Fold, k.ExpandAll, k.CollapseAll),
		keymap.NewSection("Search", k.Search, k.NextResult, k.PrevResult),
		keymap.NewSection("Copy", k.YankValue, k.YankPath),
		keymap.SystemSection(k.Back),
	}
}
