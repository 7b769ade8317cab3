package editor

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/grovetools/presets/session"
	"github.com/grovetools/presets/tui/theme"
	"github.com/grovetools/presets/tui/utils/scrollbar"
)

// View renders the editor.
func (m *Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}
	if m.width < 40 || m.height < 10 {
		return "Terminal too small. Please resize."
	}
	if m.help.ShowAll {
		return m.help.View()
	}

	var body string
	if m.picker != nil {
		body = m.theme.PaneFocused.
			Width(m.width - 2).
			Height(m.bodyHeight() - 2).
			Render(m.picker.View(m.width-4, m.bodyHeight()-2))
	} else {
		body = lipgloss.JoinHorizontal(lipgloss.Top, m.renderList(), m.renderPane())
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		body,
		m.renderPrompt(),
		m.renderStatusBar(),
	)
}

func (m *Model) renderHeader() string {
	t := m.theme
	left := t.Title.Render("presets") + t.Muted.Render(fmt.Sprintf("  %d presets", m.session.Len()))

	target := t.Muted.Render("no target")
	if path, ok := m.session.TargetPath(); ok {
		target = t.Muted.Render("target ") + t.Accent.Render(path)
		if !m.published.IsZero() {
			target += t.Muted.Render(", published " + humanize.Time(m.published))
		}
	}
	gap := max(1, m.width-lipgloss.Width(left)-lipgloss.Width(target))
	return lipgloss.NewStyle().MaxWidth(m.width).Render(left + strings.Repeat(" ", gap) + target)
}

func (m *Model) renderList() string {
	t := m.theme
	width := m.listWidth()
	height := m.bodyHeight() - 2
	inner := width - 4

	names := m.session.Names()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+height {
		m.offset = m.cursor - height + 1
	}
	if m.offset > max(0, len(names)-height) {
		m.offset = max(0, len(names)-height)
	}

	selected, hasSelection := m.session.Selected()
	bar := scrollbar.Track(len(names), height, m.offset, height)

	lines := make([]string, 0, height)
	for row := 0; row < height; row++ {
		i := m.offset + row
		var line string
		switch {
		case i < len(names):
			line = m.renderListRow(names[i], i, inner-1, hasSelection && names[i] == selected)
		case len(names) == 0 && row == 0:
			line = t.Muted.Width(inner - 1).Render("No presets. Press " + m.keys.Add.Help().Key + " to add one.")
		default:
			line = strings.Repeat(" ", inner-1)
		}
		lines = append(lines, line+bar[row])
	}

	style := t.Pane
	if m.focus == focusList && m.picker == nil {
		style = t.PaneFocused
	}
	return style.Width(width - 2).Height(height).Render(strings.Join(lines, "\n"))
}

func (m *Model) renderListRow(name string, i, width int, selected bool) string {
	t := m.theme
	marker := "  "
	if selected && m.session.State() == session.Editing {
		marker = "* "
	}
	text := truncate(marker+name, width)
	switch {
	case selected && m.focus == focusList:
		return t.Selected.Width(width).Render(text)
	case selected:
		return t.SelectedUnfocused.Width(width).Render(text)
	case i == m.cursor:
		return t.Highlight.Width(width).Render(text)
	default:
		return t.Normal.Width(width).Render(text)
	}
}

func (m *Model) renderPane() string {
	t := m.theme
	width := m.width - m.listWidth()
	height := m.bodyHeight() - 2

	var content string
	switch {
	case m.session.State() == session.NoSelection:
		content = t.Placeholder.Render("Select a preset to edit it.")
	case m.showTree:
		content = m.tree.View()
	default:
		content = m.draft.View()
	}

	style := t.Pane
	if m.focus == focusDraft || m.focus == focusTree {
		style = t.PaneFocused
	}
	return style.Width(width - 2).Height(height).MaxHeight(height + 2).Render(content)
}

// renderPrompt renders the line above the status bar: an open prompt, a
// confirmation question or the short help.
func (m *Model) renderPrompt() string {
	t := m.theme
	switch {
	case m.promptKind != promptNone:
		return t.Accent.Render(m.promptKind.title()+": ") + m.prompt.View()
	case m.confirm != confirmNone:
		return t.Warning.Render(m.confirmQuestion()) + t.Muted.Render("  [y/enter] yes  [n/esc] no")
	default:
		return lipgloss.NewStyle().MaxWidth(m.width).Render(m.help.View())
	}
}

func (m *Model) confirmQuestion() string {
	name, _ := m.session.Selected()
	switch m.confirm {
	case confirmDelete:
		return fmt.Sprintf("Delete preset %q?", name)
	case confirmDiscard:
		return fmt.Sprintf("Discard unsaved changes to %q?", name)
	case confirmQuit:
		return fmt.Sprintf("Quit without saving %q?", name)
	case confirmReload:
		files := make([]string, 0, len(m.pendingChanges))
		seen := make(map[string]bool)
		for _, c := range m.pendingChanges {
			if !seen[c.File] {
				seen[c.File] = true
				files = append(files, c.File)
			}
		}
		if len(files) == 0 {
			return "Reload presets from disk and drop the draft?"
		}
		return fmt.Sprintf("%s changed on disk. Reload?", strings.Join(files, ", "))
	}
	return ""
}

func (m *Model) renderStatusBar() string {
	t := m.theme

	var left string
	switch {
	case m.busy != "":
		left = t.Info.Render(m.busy + "...")
	case m.status != "":
		left = theme.RenderStatus(m.statusKind, m.status)
	}

	right := m.draftIndicator()
	gap := max(1, m.width-2-lipgloss.Width(left)-lipgloss.Width(right))
	return t.StatusBar.MaxWidth(m.width).Render(left + strings.Repeat(" ", gap) + right)
}

// draftIndicator reports the selection state and whether the draft parses.
func (m *Model) draftIndicator() string {
	t := m.theme
	name, ok := m.session.Selected()
	if !ok {
		return t.Muted.Render("no selection")
	}
	size := t.Muted.Render(humanize.Bytes(uint64(len(m.session.Draft()))))
	if m.session.State() != session.Editing {
		return t.Muted.Render(name+" ") + size
	}
	if err := m.session.DraftError(); err != nil {
		return t.Error.Render("✗ "+truncate(err.Error(), max(10, m.width/3))) + " " + size
	}
	return t.Success.Render("✓ valid, unsaved") + " " + size
}

func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if lipgloss.Width(s) <= width {
		return s
	}
	r := []rune(s)
	if len(r) > width-1 {
		r = r[:max(0, width-1)]
	}
	return string(r) + "…"
}
