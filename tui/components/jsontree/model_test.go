package jsontree

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/grovetools/presets/jsondoc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(m Model, keys ...string) Model {
	for _, k := range keys {
		m, _ = m.Update(keyMsg(k))
	}
	return m
}

func newTestModel(t *testing.T, doc string) Model {
	t.Helper()
	m := New(jsondoc.MustParse(doc))
	m.SetSize(80, 20)
	return m
}

func visibleKeys(m Model) []string {
	var keys []string
	for _, n := range m.nodes {
		switch n.kind {
		case nodeValue:
			keys = append(keys, n.key)
		default:
			keys = append(keys, n.bracket)
		}
	}
	return keys
}

func TestTreeKeepsDocumentOrder(t *testing.T) {
	m := newTestModel(t, `{"zeta": 1, "alpha": {"b": true}, "mid": [1, 2]}`)
	assert.Equal(t, []string{"{", "zeta", "alpha", "mid", "}"}, visibleKeys(m))
}

func TestToggleExpandsAndFolds(t *testing.T) {
	m := newTestModel(t, `{"zeta": 1, "alpha": {"b": true}}`)

	m = press(m, "j", "j")
	assert.Equal(t, "alpha", m.CursorPath())

	m = press(m, " ")
	assert.Equal(t, []string{"{", "zeta", "alpha", "b", "}", "}"}, visibleKeys(m))

	m = press(m, "h")
	assert.Equal(t, []string{"{", "zeta", "alpha", "}"}, visibleKeys(m))
}

func TestExpandAllAndCollapseAll(t *testing.T) {
	m := newTestModel(t, `{"a": {"b": {"c": [1]}}}`)

	m = press(m, "z", "R")
	assert.Equal(t, []string{"{", "a", "b", "c", "[0]", "]", "}", "}", "}"}, visibleKeys(m))

	m = press(m, "G")
	assert.Equal(t, len(m.nodes)-1, m.cursor)

	m = press(m, "z", "M")
	assert.Equal(t, []string{"{", "a", "}"}, visibleKeys(m))
	assert.Equal(t, 0, m.cursor)
}

func TestCursorPathEscapesKeys(t *testing.T) {
	m := newTestModel(t, `{"servers": {"my.server": {"args": ["-y"]}}}`)
	m = press(m, "z", "R")
	m = press(m, "j", "j", "j", "j")
	assert.Equal(t, `servers.my\.server.args.0`, m.CursorPath())

	m = press(m, "g", "g")
	assert.Equal(t, 0, m.cursor)
	assert.Equal(t, "", m.CursorPath())
}

func TestSearch(t *testing.T) {
	m := newTestModel(t, `{"command": "npx", "args": ["server"], "env": {"SERVER_URL": "x"}}`)
	m = press(m, "z", "R")

	m = press(m, "/")
	require.True(t, m.IsSearching())
	m = press(m, "s", "e", "r", "v", "e", "r", "enter")
	assert.False(t, m.IsSearching())
	require.Len(t, m.searchResults, 2)
	assert.Equal(t, "args.0", m.CursorPath())

	m = press(m, "n")
	assert.Equal(t, "env.SERVER_URL", m.CursorPath())
	m = press(m, "n")
	assert.Equal(t, "args.0", m.CursorPath())
	m = press(m, "N")
	assert.Equal(t, "env.SERVER_URL", m.CursorPath())
	assert.Contains(t, m.View(), "[2/2]")
}

func TestYank(t *testing.T) {
	m := newTestModel(t, `{"name": "x", "nested": {"a": 1}}`)
	var copied string
	m.copy = func(s string) error {
		copied = s
		return nil
	}

	m = press(m, "j", "j", "Y")
	assert.Equal(t, "nested", copied)

	m = press(m, "y")
	assert.Equal(t, "{\n  \"a\": 1\n}", copied)
	assert.Contains(t, m.View(), "Copied value")
}

func TestBackEmitsMsg(t *testing.T) {
	m := newTestModel(t, `{}`)
	_, cmd := m.Update(keyMsg("esc"))
	require.NotNil(t, cmd)
	assert.Equal(t, BackMsg{}, cmd())
}

func TestSetValueResetsCursor(t *testing.T) {
	m := newTestModel(t, `{"a": 1, "b": 2}`)
	m = press(m, "G")
	m.SetValue(jsondoc.MustParse(`{"c": 3}`))
	assert.Equal(t, 0, m.cursor)
	assert.Equal(t, []string{"{", "c", "}"}, visibleKeys(m))
}
