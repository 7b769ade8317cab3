// Package session implements the editor's command surface: one Session per
// process owns the preset store, the settings record and the current
// selection, and writes every successful mutation through to disk.
package session

import (
	"path/filepath"
	"strings"

	"github.com/grovetools/presets/errors"
	"github.com/grovetools/presets/jsondoc"
	"github.com/grovetools/presets/logging"
	"github.com/grovetools/presets/preset"
	"github.com/grovetools/presets/state"
	"github.com/sirupsen/logrus"
)

// Persistence is the subset of persist.Gateway a session needs.
type Persistence interface {
	LoadPresets() (*preset.Store, error)
	SavePresets(store *preset.Store) error
	LoadSettings() (*state.Settings, error)
	SaveSettings(st *state.Settings) error
	PublishToTarget(path string, doc jsondoc.Value) error
	ExportAll(path string, store *preset.Store) error
	ReadDocument(path string) (jsondoc.Value, error)
}

// Notifier receives non-fatal problems such as failed write-through saves
// or unreadable files at startup.
type Notifier interface {
	Warn(err error)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(err error)

// Warn calls f(err).
func (f NotifierFunc) Warn(err error) { f(err) }

// State is the selection state of a session.
type State int

const (
	// NoSelection: no preset is selected and there is no draft.
	NoSelection State = iota
	// Selected: a preset is selected and the draft shows its stored value.
	Selected
	// Editing: the draft has been changed and not yet committed.
	Editing
)

func (s State) String() string {
	switch s {
	case Selected:
		return "selected"
	case Editing:
		return "editing"
	default:
		return "no-selection"
	}
}

// Session is not safe for concurrent use.
type Session struct {
	persist  Persistence
	notifier Notifier
	logger   *logrus.Entry

	store    *preset.Store
	settings *state.Settings

	selected      string
	state         State
	draft         string
	renaming      bool
	newPresetHint string
}

// Option configures a Session.
type Option func(*Session)

// WithNotifier routes warnings to n in addition to the log.
func WithNotifier(n Notifier) Option {
	return func(s *Session) { s.notifier = n }
}

// WithLogger sets the session logger.
func WithLogger(logger *logrus.Entry) Option {
	return func(s *Session) { s.logger = logger }
}

// WithNewPresetName sets the name hint AddPreset uses for a blank hint.
func WithNewPresetName(name string) Option {
	return func(s *Session) { s.newPresetHint = name }
}

// New loads the store and the settings through p and returns a session in
// the NoSelection state. Load problems are reported to the notifier and
// leave an empty store or default settings in place.
func New(p Persistence, opts ...Option) *Session {
	s := &Session{persist: p, newPresetHint: preset.DefaultName}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logging.NewLogger("session")
	}
	s.load()
	return s
}

func (s *Session) load() {
	store, warning := s.persist.LoadPresets()
	if warning != nil {
		s.warn(warning)
	}
	if store == nil {
		store = preset.New()
	}
	settings, warning := s.persist.LoadSettings()
	if warning != nil {
		s.warn(warning)
	}
	if settings == nil {
		settings = state.Default()
	}
	s.store = store
	s.settings = settings
}

// Reload re-reads both files, e.g. after an external change. The selection
// survives when the selected preset still exists; an uncommitted draft is
// discarded.
func (s *Session) Reload() {
	selected, had := s.Selected()
	s.load()
	s.renaming = false
	if had && s.store.Has(selected) {
		_ = s.SelectPreset(selected)
		return
	}
	s.clearSelection()
}

// Names returns the preset names in store order.
func (s *Session) Names() []string { return s.store.Names() }

// Len returns the number of presets.
func (s *Session) Len() int { return s.store.Len() }

// Get returns a copy of the named preset's stored value.
func (s *Session) Get(name string) (jsondoc.Value, bool) { return s.store.Get(name) }

// Document returns the whole store as one JSON object.
func (s *Session) Document() jsondoc.Value { return s.store.Document() }

// State returns the selection state.
func (s *Session) State() State { return s.state }

// Selected returns the selected preset name, if any.
func (s *Session) Selected() (string, bool) {
	if s.state == NoSelection {
		return "", false
	}
	return s.selected, true
}

// Draft returns the draft text. It is empty without a selection.
func (s *Session) Draft() string { return s.draft }

// IsRenaming reports whether a rename of the selected preset is in progress.
func (s *Session) IsRenaming() bool { return s.renaming }

// DraftError returns why the draft would fail to commit, or nil.
func (s *Session) DraftError() error {
	if s.state == NoSelection {
		return errors.NoSelection()
	}
	if _, err := jsondoc.Parse(s.draft); err != nil {
		return errors.InvalidJSON(err)
	}
	return nil
}

// SelectPreset selects name and resets the draft to its stored value.
func (s *Session) SelectPreset(name string) error {
	value, ok := s.store.Get(name)
	if !ok {
		return errors.NotFound(name)
	}
	s.selected = name
	s.state = Selected
	s.draft = value.PrettyString()
	s.renaming = false
	return nil
}

// ClearSelection returns to NoSelection, dropping any draft.
func (s *Session) ClearSelection() {
	s.clearSelection()
}

func (s *Session) clearSelection() {
	s.selected = ""
	s.state = NoSelection
	s.draft = ""
	s.renaming = false
}

// EditDraft replaces the draft text. Nothing is parsed or saved.
func (s *Session) EditDraft(text string) error {
	if s.state == NoSelection {
		return errors.NoSelection()
	}
	s.draft = text
	s.state = Editing
	return nil
}

// RevertDraft discards draft changes.
func (s *Session) RevertDraft() error {
	if s.state == NoSelection {
		return errors.NoSelection()
	}
	return s.SelectPreset(s.selected)
}

// CommitDraft parses the draft and stores it as the selected preset's value.
// On a parse error nothing changes and the draft is kept for correction.
func (s *Session) CommitDraft() error {
	if s.state == NoSelection {
		return errors.NoSelection()
	}
	value, err := jsondoc.Parse(s.draft)
	if err != nil {
		return errors.InvalidJSON(err).WithDetail("preset", s.selected)
	}
	if err := s.store.SetValue(s.selected, value); err != nil {
		return err
	}
	s.state = Selected
	s.draft = value.PrettyString()
	s.savePresets()
	s.logger.WithField("preset", s.selected).Debug("Committed draft")
	return nil
}

// SetValue stores value under name directly, as the CLI does. If name is
// selected its draft is re-rendered.
func (s *Session) SetValue(name string, value jsondoc.Value) error {
	if err := s.store.SetValue(name, value); err != nil {
		return err
	}
	if s.state != NoSelection && s.selected == name {
		s.state = Selected
		s.draft = value.PrettyString()
	}
	s.savePresets()
	return nil
}

// AddPreset appends an empty preset under a unique name derived from hint,
// persists, selects it and returns its name.
func (s *Session) AddPreset(hint string) string {
	if strings.TrimSpace(hint) == "" {
		hint = s.newPresetHint
	}
	name := s.store.Add(hint)
	s.savePresets()
	_ = s.SelectPreset(name)
	return name
}

// BeginRename marks the selected preset as being renamed.
func (s *Session) BeginRename() error {
	if s.state == NoSelection {
		return errors.NoSelection()
	}
	s.renaming = true
	return nil
}

// CancelRename abandons a rename in progress.
func (s *Session) CancelRename() {
	s.renaming = false
}

// RenameSelected renames the selected preset and keeps it selected. An
// uncommitted draft is kept.
func (s *Session) RenameSelected(newName string) (string, error) {
	if s.state == NoSelection {
		return "", errors.NoSelection()
	}
	return s.Rename(s.selected, newName)
}

// Rename renames oldName in place. Store errors are returned unchanged and
// leave everything as it was.
func (s *Session) Rename(oldName, newName string) (string, error) {
	stored, err := s.store.Rename(oldName, newName)
	if err != nil {
		return "", err
	}
	if s.state != NoSelection && s.selected == oldName {
		s.selected = stored
	}
	s.renaming = false
	if stored != oldName {
		s.savePresets()
	}
	return stored, nil
}

// DeleteSelected deletes the selected preset.
func (s *Session) DeleteSelected() error {
	if s.state == NoSelection {
		return errors.NoSelection()
	}
	s.Delete(s.selected)
	return nil
}

// Delete removes name and reports whether it existed. A missing name is a
// no-op. Deleting the selected preset clears the selection.
func (s *Session) Delete(name string) bool {
	if !s.store.Delete(name) {
		return false
	}
	if s.state != NoSelection && s.selected == name {
		s.clearSelection()
	}
	s.savePresets()
	return true
}

// TargetPath returns the publish target, if set.
func (s *Session) TargetPath() (string, bool) {
	return s.settings.TargetPath()
}

// SetTargetPath sets (or, with a blank path, clears) the publish target and
// persists the settings. The path is not checked here.
func (s *Session) SetTargetPath(path string) {
	s.settings.SetTargetPath(path)
	if err := s.persist.SaveSettings(s.settings); err != nil {
		s.warn(err)
	}
}

// PublishSelected writes the selected preset's stored value, not the draft,
// to the target file. A missing target is reported before a missing
// selection.
func (s *Session) PublishSelected() error {
	target, ok := s.settings.TargetPath()
	if !ok {
		return errors.NoTarget()
	}
	if s.state == NoSelection {
		return errors.NoSelection()
	}
	return s.publish(target, s.selected)
}

// Publish writes the named preset's stored value to the target file.
func (s *Session) Publish(name string) error {
	target, ok := s.settings.TargetPath()
	if !ok {
		return errors.NoTarget()
	}
	return s.publish(target, name)
}

func (s *Session) publish(target, name string) error {
	value, ok := s.store.Get(name)
	if !ok {
		return errors.NotFound(name)
	}
	if err := s.persist.PublishToTarget(target, value); err != nil {
		return err
	}
	s.logger.WithFields(logrus.Fields{"preset": name, "target": target}).Info("Published preset")
	return nil
}

// ExportAll writes the whole store as one JSON object to path.
func (s *Session) ExportAll(path string) error {
	return s.persist.ExportAll(path, s.store)
}

// ImportFile replaces the whole store with the object in path. The
// selection is kept if its name survives the import.
func (s *Session) ImportFile(path string) error {
	doc, err := s.persist.ReadDocument(path)
	if err != nil {
		return err
	}
	if err := s.store.ImportAll(doc); err != nil {
		return err
	}
	if s.state != NoSelection {
		if s.store.Has(s.selected) {
			_ = s.SelectPreset(s.selected)
		} else {
			s.clearSelection()
		}
	}
	s.savePresets()
	s.logger.WithFields(logrus.Fields{"path": path, "count": s.store.Len()}).Info("Imported presets")
	return nil
}

// FileError pairs a file with the reason it could not be added.
type FileError struct {
	Path string
	Err  error
}

// AddFromFiles adds one preset per file, named after the file's base name
// without extension. Each file must hold a JSON object. Files that fail are
// reported in the second return value and do not stop the others; the store
// is saved once if anything was added.
func (s *Session) AddFromFiles(paths ...string) ([]string, []FileError) {
	var (
		added  []string
		failed []FileError
	)
	for _, path := range paths {
		doc, err := s.persist.ReadDocument(path)
		if err == nil {
			var name string
			name, err = s.store.AddFromDocument(nameHint(path), doc)
			if err == nil {
				added = append(added, name)
				continue
			}
		}
		failed = append(failed, FileError{Path: path, Err: err})
	}
	if len(added) > 0 {
		s.savePresets()
	}
	return added, failed
}

func nameHint(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func (s *Session) savePresets() {
	if err := s.persist.SavePresets(s.store); err != nil {
		s.warn(err)
	}
}

func (s *Session) warn(err error) {
	s.logger.WithError(err).Warn("Operation completed with a warning")
	if s.notifier != nil {
		s.notifier.Warn(err)
	}
}
