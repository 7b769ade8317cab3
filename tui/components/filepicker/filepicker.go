// Package filepicker is an embeddable Bubble Tea model for choosing one or
// more files from the file system.
package filepicker

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"
	"github.com/grovetools/presets/pkg/fsys"
	"github.com/grovetools/presets/tui/theme"
)

// SelectedMsg is sent when the user confirms a selection.
type SelectedMsg struct {
	// ID is the Model's ID, so the parent knows which action asked.
	ID    string
	Paths []string
}

// CancelMsg is sent when the user closes the picker.
type CancelMsg struct{ ID string }

// entriesMsg carries the result of reading a directory.
type entriesMsg struct {
	dir     string
	entries []fsys.Entry
	err     error
}

// KeyMap defines the picker bindings.
type KeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Open   key.Binding
	Parent key.Binding
	Mark   key.Binding
	Hidden key.Binding
	Cancel key.Binding
}

// DefaultKeyMap returns the default picker bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("k", "up")),
		Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("j", "down")),
		Open:   key.NewBinding(key.WithKeys("enter", "right", "l"), key.WithHelp("enter", "open/select")),
		Parent: key.NewBinding(key.WithKeys("backspace", "left", "h"), key.WithHelp("h", "parent")),
		Mark:   key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "mark")),
		Hidden: key.NewBinding(key.WithKeys("."), key.WithHelp(".", "hidden")),
		Cancel: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
	}
}

// Model lets the user browse directories and pick files that pass a
// pattern filter.
type Model struct {
	ID    string
	Title string
	// Multi allows marking several files with Mark.
	Multi bool

	keys       KeyMap
	filter     *fsys.Filter
	dir        string
	entries    []fsys.Entry
	marked     map[string]bool
	cursor     int
	offset     int
	showHidden bool
	err        error
}

// New creates a picker that offers files passing filter.
func New(id, title string, filter *fsys.Filter) Model {
	return Model{
		ID:     id,
		Title:  title,
		keys:   DefaultKeyMap(),
		filter: filter,
		marked: make(map[string]bool),
	}
}

// SetDirectory moves the picker to path, or the working directory when
// path is empty, and returns the command that reads it.
func (m *Model) SetDirectory(path string) tea.Cmd {
	if path == "" {
		if wd, err := os.Getwd(); err == nil {
			path = wd
		} else {
			path = "/"
		}
	}
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	m.dir = path
	m.cursor = 0
	m.offset = 0
	m.err = nil
	return m.readDir()
}

// Dir returns the directory being shown.
func (m Model) Dir() string { return m.dir }

// Marked returns the marked files in listing order.
func (m Model) Marked() []string {
	var out []string
	for _, e := range m.entries {
		if m.marked[e.Path] {
			out = append(out, e.Path)
		}
	}
	return out
}

// Update processes messages for the picker.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case entriesMsg:
		if msg.dir != m.dir {
			return m, nil
		}
		if msg.err != nil {
			m.err = msg.err
			m.entries = nil
			return m, nil
		}
		m.entries = msg.entries
		m.cursor = 0
		m.offset = 0
		m.err = nil
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	total := m.total()
	switch {
	case key.Matches(msg, m.keys.Up):
		if total > 0 {
			m.cursor = (m.cursor - 1 + total) % total
		}
	case key.Matches(msg, m.keys.Down):
		if total > 0 {
			m.cursor = (m.cursor + 1) % total
		}
	case key.Matches(msg, m.keys.Open):
		return m.openSelected()
	case key.Matches(msg, m.keys.Parent):
		return m.goUp()
	case key.Matches(msg, m.keys.Mark):
		if e, ok := m.entryAt(m.cursor); ok && m.Multi && !e.IsDir {
			m.marked[e.Path] = !m.marked[e.Path]
			if !m.marked[e.Path] {
				delete(m.marked, e.Path)
			}
			if m.cursor < total-1 {
				m.cursor++
			}
		}
	case key.Matches(msg, m.keys.Hidden):
		m.showHidden = !m.showHidden
		return m, m.readDir()
	case key.Matches(msg, m.keys.Cancel):
		id := m.ID
		return m, func() tea.Msg { return CancelMsg{ID: id} }
	}
	return m, nil
}

// total counts the listing plus the leading ".." row.
func (m Model) total() int {
	return len(m.entries) + 1
}

// entryAt returns the listing entry behind row i. Row 0 is "..".
func (m Model) entryAt(i int) (fsys.Entry, bool) {
	if i <= 0 || i > len(m.entries) {
		return fsys.Entry{}, false
	}
	return m.entries[i-1], true
}

func (m Model) openSelected() (Model, tea.Cmd) {
	e, ok := m.entryAt(m.cursor)
	if !ok {
		return m.goUp()
	}
	if e.IsDir {
		m.dir = e.Path
		m.cursor = 0
		return m, m.readDir()
	}

	paths := m.Marked()
	if len(paths) == 0 {
		paths = []string{e.Path}
	}
	id := m.ID
	return m, func() tea.Msg { return SelectedMsg{ID: id, Paths: paths} }
}

func (m Model) goUp() (Model, tea.Cmd) {
	parent := filepath.Dir(m.dir)
	if parent == m.dir {
		return m, nil
	}
	m.dir = parent
	m.cursor = 0
	return m, m.readDir()
}

func (m Model) readDir() tea.Cmd {
	dir, filter, showHidden := m.dir, m.filter, m.showHidden
	return func() tea.Msg {
		entries, err := fsys.ListDir(dir, filter, showHidden)
		if err != nil {
			return entriesMsg{dir: dir, err: fmt.Errorf("read dir: %w", err)}
		}
		return entriesMsg{dir: dir, entries: entries}
	}
}

// View renders the picker into width x height.
func (m *Model) View(width, height int) string {
	t := theme.DefaultTheme
	if width < 10 || height < 5 {
		return ""
	}

	var b strings.Builder
	b.WriteString(t.Title.Render(m.Title))
	b.WriteString("\n")
	b.WriteString(t.Muted.MaxWidth(width).Render(m.dir))
	b.WriteString("\n")
	if m.err != nil {
		b.WriteString(t.Error.Render("  " + m.err.Error()))
	}
	b.WriteString("\n")

	listHeight := max(1, height-4)
	total := m.total()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+listHeight {
		m.offset = m.cursor - listHeight + 1
	}

	rendered := 0
	for i := m.offset; i < total && rendered < listHeight; i++ {
		b.WriteString(m.renderRow(i, width))
		b.WriteString("\n")
		rendered++
	}
	for ; rendered < listHeight; rendered++ {
		b.WriteString("\n")
	}

	hint := "enter: open/select  h: parent  .: hidden  esc: cancel"
	if m.Multi {
		hint = "space: mark  " + hint
	}
	b.WriteString(t.Muted.Italic(true).Render(hint))
	return b.String()
}

func (m *Model) renderRow(i, width int) string {
	t := theme.DefaultTheme
	name, detail := "..", ""
	if e, ok := m.entryAt(i); ok {
		name = e.Name
		if e.IsDir {
			name += "/"
		} else {
			detail = humanize.Bytes(uint64(e.Size))
		}
		if m.marked[e.Path] {
			name = "* " + name
		}
	}

	line := "  " + name
	if detail != "" {
		line += "  " + t.Muted.Render(detail)
	}
	if i == m.cursor {
		return t.Selected.Width(width).Render("> " + strings.TrimPrefix(line, "  "))
	}
	return line
}
