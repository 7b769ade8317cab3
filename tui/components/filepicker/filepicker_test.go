package filepicker

import (
	"os"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/grovetools/presets/pkg/fsys"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// drive applies msg and runs any returned command, feeding directory
// listings back in and returning the first other message produced.
func drive(t *testing.T, m Model, msg tea.Msg) (Model, tea.Msg) {
	t.Helper()
	m, cmd := m.Update(msg)
	if cmd == nil {
		return m, nil
	}
	out := cmd()
	if entries, ok := out.(entriesMsg); ok {
		m, _ = m.Update(entries)
		return m, nil
	}
	return m, out
}

func setup(t *testing.T) (string, Model) {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "sub"), 0o755))
	for _, name := range []string{"b.json", "a.json", "notes.txt", ".hidden.json"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("{}"), 0o644))
	}
	filter, err := fsys.NewFilter([]string{"*.json"})
	require.NoError(t, err)

	m := New("import", "Import", filter)
	cmd := m.SetDirectory(dir)
	m, _ = m.Update(cmd())
	return dir, m
}

func names(m Model) []string {
	var out []string
	for _, e := range m.entries {
		out = append(out, e.Name)
	}
	return out
}

func TestListing(t *testing.T) {
	_, m := setup(t)
	assert.Equal(t, []string{"sub", "a.json", "b.json"}, names(m))

	m, _ = drive(t, m, keyMsg("."))
	assert.Equal(t, []string{"sub", ".hidden.json", "a.json", "b.json"}, names(m))
}

func TestSelectFile(t *testing.T) {
	dir, m := setup(t)

	m, _ = drive(t, m, keyMsg("j"))
	m, _ = drive(t, m, keyMsg("j"))
	_, out := drive(t, m, keyMsg("enter"))

	assert.Equal(t, SelectedMsg{ID: "import", Paths: []string{filepath.Join(dir, "a.json")}}, out)
}

func TestNavigateDirectories(t *testing.T) {
	dir, m := setup(t)

	m, _ = drive(t, m, keyMsg("j"))
	m, _ = drive(t, m, keyMsg("enter"))
	assert.Equal(t, filepath.Join(dir, "sub"), m.Dir())
	assert.Empty(t, m.entries)

	m, _ = drive(t, m, keyMsg("backspace"))
	assert.Equal(t, dir, m.Dir())

	// Row 0 is the parent directory.
	m, _ = drive(t, m, keyMsg("enter"))
	assert.Equal(t, filepath.Dir(dir), m.Dir())
}

func TestMultiSelect(t *testing.T) {
	dir, m := setup(t)
	m.Multi = true

	m, _ = drive(t, m, keyMsg("j"))
	m, _ = drive(t, m, keyMsg("j"))
	m, _ = drive(t, m, keyMsg(" "))
	m, _ = drive(t, m, keyMsg(" "))
	assert.Equal(t, []string{filepath.Join(dir, "a.json"), filepath.Join(dir, "b.json")}, m.Marked())

	_, out := drive(t, m, keyMsg("enter"))
	sel, ok := out.(SelectedMsg)
	require.True(t, ok)
	assert.Len(t, sel.Paths, 2)
}

func TestCancel(t *testing.T) {
	_, m := setup(t)
	_, out := drive(t, m, keyMsg("esc"))
	assert.Equal(t, CancelMsg{ID: "import"}, out)
}

func TestView(t *testing.T) {
	_, m := setup(t)
	view := m.View(60, 12)
	assert.Contains(t, view, "Import")
	assert.Contains(t, view, "sub/")
	assert.Contains(t, view, "a.json")
	assert.NotContains(t, view, "notes.txt")
}
