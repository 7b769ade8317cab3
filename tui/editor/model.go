// Package editor is the interactive preset editor: a list of presets on the
// left, the selected preset's draft (or its tree view) on the right, and a
// status bar. Every action goes through a session.Session.
package editor

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/grovetools/presets/config"
	"github.com/grovetools/presets/jsondoc"
	"github.com/grovetools/presets/logging"
	"github.com/grovetools/presets/persist"
	"github.com/grovetools/presets/pkg/fsys"
	"github.com/grovetools/presets/session"
	"github.com/grovetools/presets/tui/components/filepicker"
	"github.com/grovetools/presets/tui/components/help"
	"github.com/grovetools/presets/tui/components/jsontree"
	"github.com/grovetools/presets/tui/keymap"
	"github.com/grovetools/presets/tui/theme"
	"github.com/sirupsen/logrus"
)

type focus int

const (
	focusList focus = iota
	focusDraft
	focusTree
)

type promptKind int

const (
	promptNone promptKind = iota
	promptAdd
	promptRename
	promptTarget
	promptExport
)

func (k promptKind) title() string {
	switch k {
	case promptAdd:
		return "New preset name"
	case promptRename:
		return "Rename to"
	case promptTarget:
		return "Target file (empty clears)"
	case promptExport:
		return "Export all presets to"
	default:
		return ""
	}
}

type confirmKind int

const (
	confirmNone confirmKind = iota
	confirmDelete
	confirmReload
	confirmDiscard
	confirmQuit
)

// Picker IDs.
const (
	pickImport  = "import"
	pickAddFile = "add-file"
)

// statusTimeout is how long a status message stays up.
const statusTimeout = 4 * time.Second

// Options configures the editor.
type Options struct {
	// Persistence backs the session. Run also needs a *persist.Gateway
	// here to watch the files.
	Persistence session.Persistence
	Config      *config.Config
	Theme       *theme.Theme
	Logger      *logrus.Entry
}

// Model is the editor's Bubble Tea model.
type Model struct {
	session *session.Session
	cfg     *config.Config
	theme   *theme.Theme
	logger  *logrus.Entry

	keys     keymap.KeyMap
	seq      *keymap.SequenceState
	help     help.Model
	draft    textarea.Model
	tree     jsontree.Model
	showTree bool

	prompt     textinput.Model
	promptKind promptKind
	picker     *filepicker.Model
	filter     *fsys.Filter

	confirm        confirmKind
	pendingCursor  int
	pendingChanges []persist.Change

	focus  focus
	cursor int
	offset int
	width  int
	height int

	status     string
	statusKind string
	statusID   int
	busy       string
	warnings   []string
	published  time.Time

	changes <-chan persist.Change
}

// New builds the editor and the session behind it. The session starts
// without a selection.
func New(opts Options) (*Model, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	t := opts.Theme
	if t == nil {
		t = theme.DefaultTheme
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewLogger("tui")
	}

	filter, err := fsys.NewFilter(cfg.Import.Patterns)
	if err != nil {
		return nil, fmt.Errorf("invalid import patterns: %w", err)
	}

	keys, unknown := keymap.Load(cfg.Editor.Keymap, cfg.Editor.Keys)

	m := &Model{
		cfg:    cfg,
		theme:  t,
		logger: logger,
		keys:   keys,
		seq:    keymap.NewSequenceState(),
		filter: filter,
	}
	if len(unknown) > 0 {
		m.warnings = append(m.warnings, "unknown key actions: "+strings.Join(unknown, ", "))
	}

	m.session = session.New(opts.Persistence,
		session.WithLogger(logger),
		session.WithNewPresetName(cfg.Editor.NewPresetName),
		session.WithNotifier(session.NotifierFunc(func(err error) {
			m.warnings = append(m.warnings, err.Error())
		})))

	m.help = help.New(keys)
	m.help.Theme = t
	m.help.Title = "Preset editor"
	m.help.Close = []key.Binding{keys.Help, keys.Quit}

	m.draft = textarea.New()
	m.draft.ShowLineNumbers = true
	m.draft.Prompt = ""
	m.draft.CharLimit = 0
	m.draft.Placeholder = "Select a preset"
	m.draft.Blur()

	m.tree = jsontree.New(jsondoc.Null())

	m.prompt = textinput.New()
	m.prompt.Prompt = "> "

	return m, nil
}

// Session returns the session the editor drives.
func (m *Model) Session() *session.Session { return m.session }

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.flushWarnings(), m.waitForChange())
}

// setStatus shows text in the status bar and schedules its removal.
func (m *Model) setStatus(kind, text string) tea.Cmd {
	m.statusID++
	m.status = text
	m.statusKind = kind
	id := m.statusID
	return tea.Tick(statusTimeout, func(time.Time) tea.Msg {
		return clearStatusMsg{id: id}
	})
}

// setError shows err in the status bar.
func (m *Model) setError(err error) tea.Cmd {
	m.logger.WithError(err).Debug("Command failed")
	return m.setStatus("error", err.Error())
}

// flushWarnings moves queued notifier warnings into the status bar.
func (m *Model) flushWarnings() tea.Cmd {
	if len(m.warnings) == 0 {
		return nil
	}
	text := m.warnings[len(m.warnings)-1]
	if n := len(m.warnings); n > 1 {
		text = fmt.Sprintf("%s (+%d more)", text, n-1)
	}
	m.warnings = nil
	return m.setStatus("warning", text)
}

// syncCursor keeps the list cursor on the selected preset, or in range.
func (m *Model) syncCursor() {
	names := m.session.Names()
	if name, ok := m.session.Selected(); ok {
		for i, n := range names {
			if n == name {
				m.cursor = i
				return
			}
		}
	}
	if m.cursor >= len(names) {
		m.cursor = len(names) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// loadDraft copies the session draft into the text area and tree.
func (m *Model) loadDraft() {
	m.draft.SetValue(m.session.Draft())
	if name, ok := m.session.Selected(); ok {
		v, _ := m.session.Get(name)
		m.tree.SetValue(v)
	} else {
		m.tree.SetValue(jsondoc.Null())
		m.showTree = false
	}
}

// selectAt selects the preset under index i.
func (m *Model) selectAt(i int) tea.Cmd {
	names := m.session.Names()
	if i < 0 || i >= len(names) {
		return nil
	}
	m.cursor = i
	if err := m.session.SelectPreset(names[i]); err != nil {
		return m.setError(err)
	}
	m.loadDraft()
	return nil
}

// moveTo moves the cursor to i, asking first when the draft has changes.
func (m *Model) moveTo(i int) tea.Cmd {
	n := m.session.Len()
	if n == 0 {
		return nil
	}
	if i < 0 {
		i = 0
	}
	if i >= n {
		i = n - 1
	}
	if i == m.cursor && m.session.State() != session.NoSelection {
		return nil
	}
	if m.session.State() == session.Editing {
		m.pendingCursor = i
		m.confirm = confirmDiscard
		return nil
	}
	return m.selectAt(i)
}

func (m *Model) focusDraft() tea.Cmd {
	if m.session.State() == session.NoSelection {
		return m.setStatus("info", "Select a preset first")
	}
	m.focus = focusDraft
	m.showTree = false
	return m.draft.Focus()
}

func (m *Model) focusList() {
	m.focus = focusList
	m.draft.Blur()
}

func (m *Model) focusTree() tea.Cmd {
	if m.session.State() == session.NoSelection {
		return m.setStatus("info", "Select a preset first")
	}
	m.draft.Blur()
	m.focus = focusTree
	m.showTree = true
	return nil
}

func (m *Model) openPrompt(kind promptKind, value string) tea.Cmd {
	m.promptKind = kind
	m.prompt.SetValue(value)
	m.prompt.CursorEnd()
	m.draft.Blur()
	return m.prompt.Focus()
}

func (m *Model) closePrompt() {
	m.promptKind = promptNone
	m.prompt.Blur()
	m.prompt.SetValue("")
	if m.focus == focusDraft {
		_ = m.draft.Focus()
	}
}

func (m *Model) openPicker(id string) tea.Cmd {
	title := "Import presets"
	if id == pickAddFile {
		title = "Add presets from files"
	}
	p := filepicker.New(id, title, m.filter)
	p.Multi = id == pickAddFile
	m.picker = &p
	return m.picker.SetDirectory("")
}

func (m *Model) resize() {
	listW := m.listWidth()
	paneW := max(10, m.width-listW-4)
	paneH := max(3, m.bodyHeight()-2)
	m.draft.SetWidth(paneW)
	m.draft.SetHeight(paneH)
	m.tree.SetSize(paneW-1, paneH-1)
	m.prompt.Width = max(10, m.width-len(m.promptKind.title())-8)
	m.help.SetSize(m.width, m.height)
}

func (m *Model) listWidth() int {
	w := m.width / 3
	if w < 18 {
		w = 18
	}
	if w > 40 {
		w = 40
	}
	return w
}

// bodyHeight is the height left for the two panes.
func (m *Model) bodyHeight() int {
	return max(3, m.height-3)
}
