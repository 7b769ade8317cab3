package editor

import (
	"context"
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/grovetools/presets/persist"
)

// Run shows the editor full screen until the user quits or ctx is done.
// When opts.Persistence is a *persist.Gateway and watching is enabled, the
// store files are watched and external changes are offered for reload.
func Run(ctx context.Context, opts Options) error {
	m, err := New(opts)
	if err != nil {
		return err
	}

	if g, ok := opts.Persistence.(*persist.Gateway); ok && m.cfg.WatchEnabled() {
		debounce := time.Duration(m.cfg.Editor.WatchDebounceMs) * time.Millisecond
		w, err := persist.NewWatcher(g, debounce)
		if err != nil {
			m.logger.WithError(err).Warn("File watching disabled")
			m.warnings = append(m.warnings, "file watching disabled: "+err.Error())
		} else {
			watchCtx, cancel := context.WithCancel(ctx)
			defer cancel()
			defer w.Close()
			go w.Start(watchCtx)
			m.changes = w.Changes()
		}
	}

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return err
	}
	return nil
}
