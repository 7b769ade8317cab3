// Package jsontree is a read-only, foldable tree view of a JSON document
// that keeps object keys in document order.
package jsontree

import (
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/grovetools/presets/jsondoc"
	"github.com/grovetools/presets/tui/keymap"
	"github.com/grovetools/presets/tui/theme"
	"github.com/grovetools/presets/tui/utils/scrollbar"
)

type nodeKind int

const (
	nodeValue nodeKind = iota
	nodeOpen
	nodeClose
)

// node is one line of the tree.
type node struct {
	kind      nodeKind
	key       string
	path      string
	value     jsondoc.Value
	depth     int
	children  []*node
	collapsed bool
	bracket   string
}

func (n *node) container() bool {
	k := n.value.Kind()
	return n.kind == nodeValue && (k == jsondoc.KindObject || k == jsondoc.KindArray)
}

// Model is the Bubble Tea model for the JSON tree viewer.
type Model struct {
	viewport viewport.Model
	root     *node
	nodes    []*node
	cursor   int
	keys     KeyMap
	seq      *keymap.SequenceState
	width    int
	height   int
	ready    bool

	isSearching   bool
	searchInput   textinput.Model
	searchQuery   string
	searchResults []int
	currentResult int

	statusMessage string

	// copy is swapped in tests.
	copy func(string) error
}

// BackMsg is sent when the user leaves the tree view.
type BackMsg struct{}

// New creates a tree model for v. Only the top level starts expanded.
func New(v jsondoc.Value) Model {
	ti := textinput.New()
	ti.Placeholder = "Search..."
	ti.Prompt = "/"
	ti.CharLimit = 100
	ti.Width = 30

	m := Model{
		keys:          DefaultKeyMap(),
		seq:           keymap.NewSequenceStateWithTimeout(500 * time.Millisecond),
		searchInput:   ti,
		currentResult: -1,
		copy:          clipboard.WriteAll,
	}
	m.SetValue(v)
	return m
}

// SetValue replaces the document, keeping the viewport size.
func (m *Model) SetValue(v jsondoc.Value) {
	m.root = buildTree("", "", v, 0)
	m.nodes = flattenTree(m.root)
	m.cursor = 0
	m.searchResults = nil
	m.currentResult = -1
	if m.searchQuery != "" {
		m.performSearch()
	}
	m.updateContent()
}

// Keys returns the active keymap.
func (m Model) Keys() KeyMap { return m.keys }

// IsSearching reports whether the search prompt has focus.
func (m Model) IsSearching() bool { return m.isSearching }

// CursorPath returns the path of the node under the cursor in the syntax
// accepted by `presets show` and `presets set`.
func (m Model) CursorPath() string {
	if m.cursor < 0 || m.cursor >= len(m.nodes) {
		return ""
	}
	return m.nodes[m.cursor].path
}

// SetSize sets the size of the component.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	if m.ready {
		m.viewport.Width = width
		m.viewport.Height = height
	} else {
		m.viewport = viewport.New(width, height)
		m.ready = true
	}
	m.updateContent()
}

func buildTree(key, path string, v jsondoc.Value, depth int) *node {
	n := &node{key: key, path: path, value: v, depth: depth, collapsed: depth > 0}

	switch v.Kind() {
	case jsondoc.KindObject:
		v.Object().Each(func(k string, child jsondoc.Value) bool {
			n.children = append(n.children, buildTree(k, jsondoc.JoinPath(path, k), child, depth+1))
			return true
		})
	case jsondoc.KindArray:
		for i, item := range v.Items() {
			idx := fmt.Sprintf("%d", i)
			n.children = append(n.children, buildTree("["+idx+"]", jsondoc.JoinPath(path, idx), item, depth+1))
		}
	}
	return n
}

func brackets(v jsondoc.Value) (string, string) {
	if v.Kind() == jsondoc.KindArray {
		return "[", "]"
	}
	return "{", "}"
}

// flattenTree lists the visible lines. The root is shown as its bare
// brackets around its children.
func flattenTree(root *node) []*node {
	if root == nil {
		return nil
	}
	var nodes []*node
	var flatten func(n *node)
	flatten = func(n *node) {
		nodes = append(nodes, n)
		if n.container() && !n.collapsed && len(n.children) > 0 {
			for _, child := range n.children {
				flatten(child)
			}
			_, closeB := brackets(n.value)
			nodes = append(nodes, &node{kind: nodeClose, depth: n.depth, path: n.path, bracket: closeB})
		}
	}

	if !root.container() {
		return []*node{root}
	}
	openB, closeB := brackets(root.value)
	nodes = append(nodes, &node{kind: nodeOpen, bracket: openB})
	for _, child := range root.children {
		flatten(child)
	}
	return append(nodes, &node{kind: nodeClose, bracket: closeB})
}

// Init initializes the component.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages and user input.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.isSearching {
		if msg, ok := msg.(tea.KeyMsg); ok {
			switch msg.Type {
			case tea.KeyEnter:
				m.searchQuery = m.searchInput.Value()
				m.performSearch()
				m.isSearching = false
				m.searchInput.Blur()
				if len(m.searchResults) > 0 {
					m.currentResult = 0
					m.cursor = m.searchResults[0]
				}
				m.updateContent()
				return m, nil
			case tea.KeyEsc:
				m.isSearching = false
				m.searchInput.Blur()
				m.searchInput.SetValue("")
				return m, nil
			}
		}
		var cmd tea.Cmd
		m.searchInput, cmd = m.searchInput.Update(msg)
		return m, cmd
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch result, idx := m.seq.Process(msg, m.keys.sequences()...); result {
		case keymap.SequencePending:
			return m, nil
		case keymap.SequenceMatch:
			m.seq.Clear()
			switch idx {
			case 0:
				m.cursor = 0
				m.updateContent()
			case 1:
				m.setAllCollapsed(false)
			case 2:
				m.setAllCollapsed(true)
			}
			return m, nil
		}
		m.seq.Clear()
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case clearStatusMsg:
		m.statusMessage = ""
		return m, nil
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Search):
		m.isSearching = true
		m.searchInput.SetValue("")
		m.searchInput.Focus()
		return m, textinput.Blink

	case key.Matches(msg, m.keys.NextResult):
		if len(m.searchResults) > 0 {
			m.currentResult = (m.currentResult + 1) % len(m.searchResults)
			m.cursor = m.searchResults[m.currentResult]
			m.updateContent()
		}

	case key.Matches(msg, m.keys.PrevResult):
		if len(m.searchResults) > 0 {
			m.currentResult = (m.currentResult - 1 + len(m.searchResults)) % len(m.searchResults)
			m.cursor = m.searchResults[m.currentResult]
			m.updateContent()
		}

	case key.Matches(msg, m.keys.YankValue):
		if n := m.current(); n != nil && n.kind == nodeValue {
			return m, m.yank(n.value.PrettyString(), "Copied value")
		}

	case key.Matches(msg, m.keys.YankPath):
		if path := m.CursorPath(); path != "" {
			return m, m.yank(path, "Copied "+path)
		}

	case key.Matches(msg, m.keys.Up):
		m.moveCursor(-1)
	case key.Matches(msg, m.keys.Down):
		m.moveCursor(1)
	case key.Matches(msg, m.keys.HalfPageUp):
		m.moveCursor(-max(1, m.viewport.Height/2))
	case key.Matches(msg, m.keys.HalfPageDown):
		m.moveCursor(max(1, m.viewport.Height/2))
	case key.Matches(msg, m.keys.GotoEnd):
		m.cursor = len(m.nodes) - 1
		m.updateContent()

	case key.Matches(msg, m.keys.Toggle):
		if n := m.current(); n != nil && n.container() && len(n.children) > 0 {
			n.collapsed = !n.collapsed
			m.refresh()
		}

	case key.Matches(msg, m.keys.Fold):
		if n := m.current(); n != nil && n.container() && !n.collapsed && len(n.children) > 0 {
			n.collapsed = true
			m.refresh()
		}

	case key.Matches(msg, m.keys.Back):
		m.searchQuery = ""
		m.searchResults = nil
		m.currentResult = -1
		return m, func() tea.Msg { return BackMsg{} }
	}
	return m, nil
}

func (m *Model) current() *node {
	if m.cursor < 0 || m.cursor >= len(m.nodes) {
		return nil
	}
	return m.nodes[m.cursor]
}

func (m *Model) moveCursor(delta int) {
	m.cursor = min(max(m.cursor+delta, 0), max(len(m.nodes)-1, 0))
	m.updateContent()
}

// refresh re-flattens after a fold change and keeps search results valid.
func (m *Model) refresh() {
	m.nodes = flattenTree(m.root)
	if m.cursor >= len(m.nodes) {
		m.cursor = len(m.nodes) - 1
	}
	if m.searchQuery != "" {
		m.performSearch()
	}
	m.updateContent()
}

func (m *Model) setAllCollapsed(collapsed bool) {
	var walk func(n *node)
	walk = func(n *node) {
		if n.depth > 0 {
			n.collapsed = collapsed
		}
		for _, child := range n.children {
			walk(child)
		}
	}
	if m.root == nil {
		return
	}
	walk(m.root)
	if collapsed {
		m.cursor = 0
	}
	m.refresh()
}

// performSearch records the visible lines whose key or scalar value
// contains the query, case-insensitively.
func (m *Model) performSearch() {
	m.searchResults = nil
	m.currentResult = -1
	query := strings.ToLower(m.searchQuery)
	if query == "" {
		return
	}
	for i, n := range m.nodes {
		if n.kind != nodeValue {
			continue
		}
		if strings.Contains(strings.ToLower(n.key), query) ||
			(!n.container() && strings.Contains(strings.ToLower(n.value.String()), query)) {
			m.searchResults = append(m.searchResults, i)
		}
	}
}

func (m *Model) isSearchResult(idx int) bool {
	for _, r := range m.searchResults {
		if r == idx {
			return true
		}
	}
	return false
}

func (m *Model) yank(content, status string) tea.Cmd {
	if err := m.copy(content); err != nil {
		m.statusMessage = fmt.Sprintf("Copy failed: %v", err)
	} else {
		m.statusMessage = truncateString(status, 60)
	}
	return tea.Tick(2*time.Second, func(time.Time) tea.Msg { return clearStatusMsg{} })
}

// clearStatusMsg clears the status line after a yank.
type clearStatusMsg struct{}

func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}

// updateContent renders the visible lines and scrolls the cursor into view.
func (m *Model) updateContent() {
	if !m.ready {
		return
	}
	lines := make([]string, len(m.nodes))
	for i, n := range m.nodes {
		lines[i] = m.renderNode(n, i == m.cursor, m.isSearchResult(i))
	}
	m.viewport.SetContent(strings.Join(lines, "\n"))

	if m.cursor < m.viewport.YOffset {
		m.viewport.SetYOffset(m.cursor)
	} else if m.cursor >= m.viewport.YOffset+m.viewport.Height {
		m.viewport.SetYOffset(m.cursor - m.viewport.Height + 1)
	}
}

func (m *Model) renderNode(n *node, selected, isResult bool) string {
	t := theme.DefaultTheme
	indent := strings.Repeat("  ", n.depth)

	if n.kind != nodeValue {
		line := indent + t.Muted.Render(n.bracket)
		if selected {
			line = t.Selected.Render(line)
		}
		return line
	}

	prefix := "  "
	if n.container() && len(n.children) > 0 {
		if n.collapsed {
			prefix = "▸ "
		} else {
			prefix = "▾ "
		}
	}

	keyDisplay := t.Info.Render(n.key)
	if isResult {
		keyDisplay = m.highlightMatch(n.key, t.Info)
	}

	line := fmt.Sprintf("%s%s%s: %s", indent, prefix, keyDisplay, m.renderValue(n, isResult))
	if n.depth == 0 {
		line = m.renderValue(n, isResult)
	}
	if selected {
		line = t.Selected.Render(line)
	}
	return line
}

func (m *Model) renderValue(n *node, isResult bool) string {
	t := theme.DefaultTheme
	v := n.value
	var style lipgloss.Style

	switch v.Kind() {
	case jsondoc.KindObject:
		if n.collapsed || v.Object().Len() == 0 {
			return t.Muted.Render(fmt.Sprintf("{...} (%d fields)", v.Object().Len()))
		}
		return t.Muted.Render("{")
	case jsondoc.KindArray:
		if n.collapsed || len(v.Items()) == 0 {
			return t.Muted.Render(fmt.Sprintf("[...] (%d items)", len(v.Items())))
		}
		return t.Muted.Render("[")
	case jsondoc.KindString:
		style = t.Success
	case jsondoc.KindNumber:
		style = t.Warning
	case jsondoc.KindBool:
		style = t.Accent
	default:
		style = t.Error
	}

	text := v.String()
	if isResult {
		return m.highlightMatch(text, style)
	}
	return style.Render(text)
}

// highlightMatch renders text with every occurrence of the search query
// highlighted.
func (m *Model) highlightMatch(text string, base lipgloss.Style) string {
	query := strings.ToLower(m.searchQuery)
	if query == "" {
		return base.Render(text)
	}
	lower := strings.ToLower(text)
	hl := theme.DefaultTheme.Highlight.Reverse(true)

	var b strings.Builder
	start := 0
	for {
		idx := strings.Index(lower[start:], query)
		if idx < 0 {
			b.WriteString(base.Render(text[start:]))
			return b.String()
		}
		at := start + idx
		b.WriteString(base.Render(text[start:at]))
		b.WriteString(hl.Render(text[at : at+len(query)]))
		start = at + len(query)
	}
}

// View renders the JSON tree.
func (m Model) View() string {
	t := theme.DefaultTheme
	if !m.ready {
		return ""
	}
	if m.root == nil {
		return t.Muted.Render("No JSON data to display")
	}

	var status string
	switch {
	case m.statusMessage != "":
		status = t.Success.Render(m.statusMessage)
	case m.isSearching:
		status = m.searchInput.View()
	case m.searchQuery != "":
		if len(m.searchResults) > 0 {
			status = fmt.Sprintf("/%s [%d/%d]", m.searchQuery, m.currentResult+1, len(m.searchResults))
		} else {
			status = fmt.Sprintf("/%s (no results)", m.searchQuery)
		}
		status = t.Muted.Render(status)
	case m.CursorPath() != "":
		status = t.Muted.Render(m.CursorPath())
	}

	body := scrollbar.Overlay(&m.viewport)
	if status == "" {
		return body
	}
	return lipgloss.JoinVertical(lipgloss.Left, body, status)
}
