package editor

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/grovetools/presets/session"
	"github.com/grovetools/presets/tui/components/filepicker"
	"github.com/grovetools/presets/tui/components/jsontree"
	"github.com/grovetools/presets/tui/keymap"
	"github.com/grovetools/presets/util/pathutil"
)

// Update handles messages and updates the model accordingly.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case clearStatusMsg:
		if msg.id == m.statusID {
			m.status = ""
			m.statusKind = ""
		}
		return m, nil

	case publishDoneMsg:
		m.busy = ""
		if msg.err != nil {
			return m, tea.Batch(m.setError(msg.err), m.offerReload())
		}
		m.published = time.Now()
		return m, tea.Batch(m.setStatus("success", fmt.Sprintf("Published %s to %s", msg.name, msg.target)), m.offerReload())

	case exportDoneMsg:
		m.busy = ""
		if msg.err != nil {
			return m, tea.Batch(m.setError(msg.err), m.offerReload())
		}
		return m, tea.Batch(m.setStatus("success", "Exported all presets to "+msg.path), m.offerReload())

	case fileChangedMsg:
		m.logger.WithField("file", msg.change.File).Debug("External change detected")
		m.pendingChanges = append(m.pendingChanges, msg.change)
		return m, tea.Batch(m.offerReload(), m.waitForChange())

	case filepicker.SelectedMsg:
		m.picker = nil
		return m, m.handlePicked(msg)

	case filepicker.CancelMsg:
		m.picker = nil
		return m, nil

	case jsontree.BackMsg:
		m.showTree = false
		m.focusList()
		return m, nil

	case tea.KeyMsg:
		return m, m.handleKey(msg)
	}

	return m, m.forward(msg)
}

// forward passes messages the editor does not handle itself (blink ticks,
// directory listings, the tree's status timer) to the active children.
func (m *Model) forward(msg tea.Msg) tea.Cmd {
	var cmds []tea.Cmd
	var cmd tea.Cmd
	if m.picker != nil {
		*m.picker, cmd = m.picker.Update(msg)
		cmds = append(cmds, cmd)
	}
	if m.promptKind != promptNone {
		m.prompt, cmd = m.prompt.Update(msg)
		cmds = append(cmds, cmd)
	}
	m.draft, cmd = m.draft.Update(msg)
	cmds = append(cmds, cmd)
	m.tree, cmd = m.tree.Update(msg)
	cmds = append(cmds, cmd)
	return tea.Batch(cmds...)
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if msg.Type == tea.KeyCtrlC {
		return tea.Quit
	}

	if m.help.ShowAll {
		var cmd tea.Cmd
		m.help, cmd = m.help.Update(msg)
		return cmd
	}

	if m.busy != "" {
		return m.setStatus("info", m.busy+" in progress")
	}

	if m.confirm != confirmNone {
		return m.handleConfirm(msg)
	}

	if m.promptKind != promptNone {
		return m.handlePrompt(msg)
	}

	if m.picker != nil {
		var cmd tea.Cmd
		*m.picker, cmd = m.picker.Update(msg)
		return cmd
	}

	switch m.focus {
	case focusDraft:
		return m.handleDraftKey(msg)
	case focusTree:
		return m.handleTreeKey(msg)
	default:
		return m.handleListKey(msg)
	}
}

func (m *Model) handleConfirm(msg tea.KeyMsg) tea.Cmd {
	kind := m.confirm
	switch {
	case key.Matches(msg, m.keys.Confirm):
		m.confirm = confirmNone
	case key.Matches(msg, m.keys.Cancel), msg.String() == "n":
		m.confirm = confirmNone
		if kind == confirmReload {
			m.pendingChanges = nil
			return m.setStatus("info", "Kept the in-memory presets; saving will overwrite the file")
		}
		return nil
	default:
		return nil
	}

	switch kind {
	case confirmDelete:
		return m.deleteSelected()
	case confirmReload:
		return m.reload()
	case confirmDiscard:
		return m.selectAt(m.pendingCursor)
	case confirmQuit:
		return tea.Quit
	}
	return nil
}

func (m *Model) handlePrompt(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEsc:
		if m.promptKind == promptRename {
			m.session.CancelRename()
		}
		m.closePrompt()
		return nil
	case tea.KeyEnter:
		kind := m.promptKind
		value := strings.TrimSpace(m.prompt.Value())
		m.closePrompt()
		return m.submitPrompt(kind, value)
	}
	var cmd tea.Cmd
	m.prompt, cmd = m.prompt.Update(msg)
	return cmd
}

func (m *Model) submitPrompt(kind promptKind, value string) tea.Cmd {
	switch kind {
	case promptAdd:
		name := m.session.AddPreset(value)
		m.syncCursor()
		m.loadDraft()
		return tea.Batch(m.setStatus("success", "Added "+name), m.flushWarnings())

	case promptRename:
		stored, err := m.session.RenameSelected(value)
		if err != nil {
			m.session.CancelRename()
			return m.setError(err)
		}
		m.syncCursor()
		return tea.Batch(m.setStatus("success", "Renamed to "+stored), m.flushWarnings())

	case promptTarget:
		if value == "" {
			m.session.SetTargetPath("")
			return tea.Batch(m.setStatus("info", "Target cleared"), m.flushWarnings())
		}
		path, err := pathutil.Expand(value)
		if err != nil {
			return m.setError(err)
		}
		m.session.SetTargetPath(path)
		return tea.Batch(m.setStatus("success", "Target set to "+path), m.flushWarnings())

	case promptExport:
		if value == "" {
			return nil
		}
		path, err := pathutil.Expand(value)
		if err != nil {
			return m.setError(err)
		}
		m.busy = "Export"
		return m.exportCmd(path)
	}
	return nil
}

func (m *Model) handlePicked(msg filepicker.SelectedMsg) tea.Cmd {
	if len(msg.Paths) == 0 {
		return nil
	}
	switch msg.ID {
	case pickImport:
		if err := m.session.ImportFile(msg.Paths[0]); err != nil {
			return m.setError(err)
		}
		m.syncCursor()
		m.loadDraft()
		return tea.Batch(m.setStatus("success", fmt.Sprintf("Imported %d presets", m.session.Len())), m.flushWarnings())

	case pickAddFile:
		added, failed := m.session.AddFromFiles(msg.Paths...)
		for _, f := range failed {
			m.warnings = append(m.warnings, fmt.Sprintf("%s: %v", f.Path, f.Err))
		}
		if len(added) == 0 {
			return m.flushWarnings()
		}
		status := m.setStatus("success", "Added "+strings.Join(added, ", "))
		if len(failed) > 0 {
			return tea.Batch(status, m.flushWarnings())
		}
		return status
	}
	return nil
}

func (m *Model) handleListKey(msg tea.KeyMsg) tea.Cmd {
	result, idx := m.seq.Process(msg, m.keys.Sequences()...)
	switch result {
	case keymap.SequenceMatch:
		m.seq.Clear()
		if idx == 0 {
			return m.moveTo(0)
		}
		return m.requestDelete()
	case keymap.SequencePending:
		return nil
	}
	m.seq.Clear()

	page := max(1, m.bodyHeight()-2)
	switch {
	case key.Matches(msg, m.keys.Quit):
		if m.session.State() == session.Editing {
			m.confirm = confirmQuit
			return nil
		}
		return tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.Toggle()
		return nil
	case key.Matches(msg, m.keys.Up):
		if m.session.State() == session.NoSelection {
			return m.moveTo(m.cursor)
		}
		return m.moveTo(m.cursor - 1)
	case key.Matches(msg, m.keys.Down):
		if m.session.State() == session.NoSelection {
			return m.moveTo(m.cursor)
		}
		return m.moveTo(m.cursor + 1)
	case key.Matches(msg, m.keys.PageUp):
		return m.moveTo(m.cursor - page)
	case key.Matches(msg, m.keys.PageDown):
		return m.moveTo(m.cursor + page)
	case key.Matches(msg, m.keys.Bottom):
		return m.moveTo(m.session.Len() - 1)
	case key.Matches(msg, m.keys.FocusNext), key.Matches(msg, m.keys.Edit):
		if m.session.State() == session.NoSelection {
			if cmd := m.selectAt(m.cursor); cmd != nil {
				return cmd
			}
		}
		if m.showTree && key.Matches(msg, m.keys.FocusNext) {
			return m.focusTree()
		}
		return m.focusDraft()
	case key.Matches(msg, m.keys.Save):
		return m.commit()
	case key.Matches(msg, m.keys.Revert):
		return m.revert()
	case key.Matches(msg, m.keys.Add):
		m.prompt.Placeholder = m.cfg.Editor.NewPresetName
		return m.openPrompt(promptAdd, "")
	case key.Matches(msg, m.keys.Rename):
		if err := m.session.BeginRename(); err != nil {
			return m.setError(err)
		}
		name, _ := m.session.Selected()
		m.prompt.Placeholder = ""
		return m.openPrompt(promptRename, name)
	case key.Matches(msg, m.keys.AddFile):
		return m.openPicker(pickAddFile)
	case key.Matches(msg, m.keys.Import):
		return m.openPicker(pickImport)
	case key.Matches(msg, m.keys.Export):
		m.prompt.Placeholder = "presets-export.json"
		return m.openPrompt(promptExport, "")
	case key.Matches(msg, m.keys.Target):
		target, _ := m.session.TargetPath()
		m.prompt.Placeholder = "~/path/to/config.json"
		return m.openPrompt(promptTarget, target)
	case key.Matches(msg, m.keys.Publish):
		m.busy = "Publish"
		return m.publishCmd()
	case key.Matches(msg, m.keys.Reload):
		if m.session.State() == session.Editing {
			m.confirm = confirmReload
			return nil
		}
		return m.reload()
	case key.Matches(msg, m.keys.ToggleTree):
		if m.showTree {
			m.showTree = false
			return nil
		}
		if m.session.State() == session.NoSelection {
			if cmd := m.selectAt(m.cursor); cmd != nil {
				return cmd
			}
		}
		return m.focusTree()
	}
	return nil
}

func (m *Model) handleDraftKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Save):
		return m.commit()
	case key.Matches(msg, m.keys.Revert):
		return m.revert()
	case key.Matches(msg, m.keys.Cancel), key.Matches(msg, m.keys.FocusNext):
		m.focusList()
		return nil
	}

	var cmd tea.Cmd
	m.draft, cmd = m.draft.Update(msg)
	if text := m.draft.Value(); text != m.session.Draft() {
		if err := m.session.EditDraft(text); err != nil {
			return tea.Batch(cmd, m.setError(err))
		}
	}
	return cmd
}

func (m *Model) handleTreeKey(msg tea.KeyMsg) tea.Cmd {
	if !m.tree.IsSearching() && key.Matches(msg, m.keys.FocusNext) {
		m.focusList()
		return nil
	}
	var cmd tea.Cmd
	m.tree, cmd = m.tree.Update(msg)
	return cmd
}

func (m *Model) commit() tea.Cmd {
	if err := m.session.CommitDraft(); err != nil {
		return m.setError(err)
	}
	name, _ := m.session.Selected()
	m.loadDraft()
	return tea.Batch(m.setStatus("success", "Saved "+name), m.flushWarnings())
}

func (m *Model) revert() tea.Cmd {
	if err := m.session.RevertDraft(); err != nil {
		return m.setError(err)
	}
	m.loadDraft()
	return m.setStatus("info", "Draft reverted")
}

func (m *Model) requestDelete() tea.Cmd {
	if _, ok := m.session.Selected(); !ok {
		return m.setStatus("info", "Select a preset first")
	}
	if m.cfg.ConfirmDeleteEnabled() {
		m.confirm = confirmDelete
		return nil
	}
	return m.deleteSelected()
}

func (m *Model) deleteSelected() tea.Cmd {
	name, _ := m.session.Selected()
	if err := m.session.DeleteSelected(); err != nil {
		return m.setError(err)
	}
	m.syncCursor()
	m.loadDraft()
	m.focusList()
	return tea.Batch(m.setStatus("success", "Deleted "+name), m.flushWarnings())
}

// offerReload asks about pending external changes once nothing else is
// going on.
func (m *Model) offerReload() tea.Cmd {
	if len(m.pendingChanges) == 0 || m.busy != "" || m.confirm != confirmNone {
		return nil
	}
	m.confirm = confirmReload
	return nil
}

func (m *Model) reload() tea.Cmd {
	m.pendingChanges = nil
	m.session.Reload()
	m.syncCursor()
	m.loadDraft()
	if m.session.State() == session.NoSelection {
		m.focusList()
	}
	return tea.Batch(m.setStatus("info", fmt.Sprintf("Reloaded %d presets", m.session.Len())), m.flushWarnings())
}
