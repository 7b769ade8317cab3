package editor

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/grovetools/presets/persist"
)

// publishDoneMsg reports the end of a publish started by publishCmd.
type publishDoneMsg struct {
	name   string
	target string
	err    error
}

// exportDoneMsg reports the end of an export started by exportCmd.
type exportDoneMsg struct {
	path string
	err  error
}

// fileChangedMsg carries one change from the watcher.
type fileChangedMsg struct {
	change persist.Change
}

type clearStatusMsg struct {
	id int
}

// publishCmd publishes the selected preset off the update loop. Nothing
// else touches the session until publishDoneMsg arrives.
func (m *Model) publishCmd() tea.Cmd {
	s := m.session
	name, _ := s.Selected()
	target, _ := s.TargetPath()
	return func() tea.Msg {
		return publishDoneMsg{name: name, target: target, err: s.PublishSelected()}
	}
}

func (m *Model) exportCmd(path string) tea.Cmd {
	s := m.session
	return func() tea.Msg {
		return exportDoneMsg{path: path, err: s.ExportAll(path)}
	}
}

// waitForChange blocks on the watcher channel. It returns nil when the
// editor runs without a watcher.
func (m *Model) waitForChange() tea.Cmd {
	if m.changes == nil {
		return nil
	}
	ch := m.changes
	return func() tea.Msg {
		c, ok := <-ch
		if !ok {
			return nil
		}
		return fileChangedMsg{change: c}
	}
}
