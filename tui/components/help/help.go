// Package help renders the editor's one-line key hints and the full help
// overlay.
package help

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	ltable "github.com/charmbracelet/lipgloss/table"
	"github.com/grovetools/presets/tui/keymap"
	"github.com/grovetools/presets/tui/theme"
)

// KeyMap is what the help view needs from a keymap.
type KeyMap interface {
	keymap.SectionedKeyMap
	ShortHelp() []key.Binding
}

// Model is an embeddable help component.
type Model struct {
	Keys    KeyMap
	ShowAll bool
	Width   int
	Height  int
	Theme   *theme.Theme
	Title   string

	// Close dismisses the overlay. Esc always does.
	Close []key.Binding

	viewport viewport.Model
}

// New creates a help model for keys.
func New(keys KeyMap) Model {
	vp := viewport.New(0, 0)
	vp.MouseWheelEnabled = false
	return Model{
		Keys:     keys,
		Theme:    theme.DefaultTheme,
		Title:    "Help",
		viewport: vp,
	}
}

// Update handles resizing and, while the overlay is open, scrolling and
// closing.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		if m.ShowAll {
			m.setViewportContent()
		}

	case tea.KeyMsg:
		if !m.ShowAll {
			return m, nil
		}
		if msg.Type == tea.KeyEsc || key.Matches(msg, m.Close...) {
			m.Toggle()
			return m, nil
		}
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View renders the overlay when ShowAll is set and the short hint line
// otherwise.
func (m Model) View() string {
	t := m.theme()
	if !m.ShowAll {
		return m.viewShort(t)
	}

	content := m.viewport.View()
	if m.viewport.TotalLineCount() > m.viewport.Height {
		indicator := "↕ more"
		if m.viewport.AtTop() {
			indicator = "↓ more"
		} else if m.viewport.AtBottom() {
			indicator = "↑ more"
		}
		content = lipgloss.JoinVertical(lipgloss.Right, content,
			t.Muted.Align(lipgloss.Right).Width(m.viewport.Width).Render(indicator))
	}
	return lipgloss.Place(m.Width, m.Height, lipgloss.Center, lipgloss.Center, content)
}

func (m Model) viewShort(t *theme.Theme) string {
	if m.Keys == nil {
		return ""
	}
	var pairs []string
	for _, b := range m.Keys.ShortHelp() {
		h := b.Help()
		if !b.Enabled() || h.Key == "" || h.Desc == "" {
			continue
		}
		pairs = append(pairs, t.Highlight.Render(h.Key)+" "+t.Muted.Render(h.Desc))
	}
	return strings.Join(pairs, t.Muted.Render(" • "))
}

func (m Model) theme() *theme.Theme {
	if m.Theme == nil {
		return theme.DefaultTheme
	}
	return m.Theme
}

// setViewportContent lays the section boxes out in as many columns as fit.
func (m *Model) setViewportContent() {
	const (
		verticalMargin   = 4
		horizontalMargin = 4
		gutter           = 4
	)

	content := m.renderContent(verticalMargin, horizontalMargin, gutter)
	m.viewport.SetContent(content)
	m.viewport.Width = lipgloss.Width(content)
	m.viewport.Height = max(1, m.Height-verticalMargin-1)
}

func (m *Model) renderContent(vMargin, hMargin, gutter int) string {
	blocks := m.sectionBlocks()
	if len(blocks) == 0 {
		return ""
	}
	t := m.theme()
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(t.Colors.Orange).
		MarginBottom(1).
		Align(lipgloss.Center)

	withTitle := func(body string) string {
		return lipgloss.JoinVertical(lipgloss.Center, titleStyle.Width(lipgloss.Width(body)).Render(m.Title), body)
	}

	single := withTitle(lipgloss.JoinVertical(lipgloss.Left, blocks...))
	if lipgloss.Height(single) <= m.Height-vMargin-1 {
		return single
	}
	for cols := 3; cols >= 2; cols-- {
		if len(blocks) < cols {
			continue
		}
		layout := withTitle(columns(blocks, cols, gutter))
		if lipgloss.Width(layout) <= m.Width-hMargin {
			return layout
		}
	}
	return single
}

// columns distributes blocks over n columns, each block going to the
// currently shortest one.
func columns(blocks []string, n, gutter int) string {
	cols := make([][]string, n)
	heights := make([]int, n)
	for _, block := range blocks {
		shortest := 0
		for i := 1; i < n; i++ {
			if heights[i] < heights[shortest] {
				shortest = i
			}
		}
		cols[shortest] = append(cols[shortest], block)
		heights[shortest] += lipgloss.Height(block)
	}

	gap := strings.Repeat(" ", gutter)
	result := lipgloss.JoinVertical(lipgloss.Left, cols[0]...)
	for i := 1; i < n; i++ {
		if len(cols[i]) == 0 {
			continue
		}
		result = lipgloss.JoinHorizontal(lipgloss.Top, result, gap, lipgloss.JoinVertical(lipgloss.Left, cols[i]...))
	}
	return result
}

func (m *Model) sectionBlocks() []string {
	if m.Keys == nil {
		return nil
	}
	t := m.theme()
	keyStyle := lipgloss.NewStyle().Bold(true).Foreground(t.Colors.Blue)

	var blocks []string
	for _, section := range m.Keys.Sections() {
		var rows [][]string
		for _, b := range section.FilterEnabled() {
			h := b.Help()
			if h.Key == "" || h.Desc == "" {
				continue
			}
			rows = append(rows, []string{keyStyle.Render(h.Key), t.Muted.Italic(true).Render(h.Desc)})
		}
		if len(rows) > 0 {
			blocks = append(blocks, m.sectionBox(section.Name, rows))
		}
	}
	return blocks
}

func (m *Model) sectionBox(title string, rows [][]string) string {
	t := m.theme()
	table := ltable.New().
		Border(lipgloss.HiddenBorder()).
		StyleFunc(func(row, col int) lipgloss.Style {
			return lipgloss.NewStyle().Padding(0, 1)
		})
	for _, row := range rows {
		table = table.Row(row...)
	}

	titleStyle := lipgloss.NewStyle().Foreground(t.Colors.Orange).Italic(true)
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Colors.Border).
		Padding(0, 1).
		MarginBottom(1)
	return box.Render(lipgloss.JoinVertical(lipgloss.Left, titleStyle.Render(fmt.Sprintf("» %s", title)), table.String()))
}

// Toggle opens or closes the overlay. Opening re-renders and scrolls to
// the top.
func (m *Model) Toggle() {
	m.ShowAll = !m.ShowAll
	if m.ShowAll {
		m.setViewportContent()
		m.viewport.GotoTop()
	}
}

// SetSize sets the area the overlay is centred in.
func (m *Model) SetSize(width, height int) {
	m.Width = width
	m.Height = height
}
