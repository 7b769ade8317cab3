package session

import (
	"testing"

	"github.com/grovetools/presets/errors"
	"github.com/grovetools/presets/jsondoc"
	"github.com/grovetools/presets/persist"
	"github.com/grovetools/presets/testutil"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const appDir = "/app"

type fixture struct {
	mem      *testutil.MemFS
	gateway  *persist.Gateway
	session  *Session
	warnings []error
}

func quietLogger() *logrus.Entry {
	l := logrus.New()
	l.SetLevel(logrus.PanicLevel)
	return logrus.NewEntry(l)
}

// newFixture seeds app_config.json with presets (when not empty) and opens
// a session on it.
func newFixture(t *testing.T, presets string) *fixture {
	t.Helper()
	f := &fixture{mem: testutil.NewMemFS()}
	require.NoError(t, f.mem.MkdirAll("/targets"))
	f.gateway = persist.NewGateway(appDir,
		persist.WithFileSystem(f.mem),
		persist.WithLogger(quietLogger()))
	if presets != "" {
		f.mem.Put(f.gateway.PresetsPath(), presets)
	}
	f.session = New(f.gateway,
		WithLogger(quietLogger()),
		WithNotifier(NotifierFunc(func(err error) { f.warnings = append(f.warnings, err) })))
	return f
}

func (f *fixture) onDisk(t *testing.T) jsondoc.Value {
	t.Helper()
	content, ok := f.mem.Content(f.gateway.PresetsPath())
	require.True(t, ok, "presets file not written")
	doc, err := jsondoc.Parse(content)
	require.NoError(t, err)
	return doc
}

func TestNewStartsWithoutSelection(t *testing.T) {
	f := newFixture(t, `{"a": {"x": 1}}`)

	assert.Equal(t, NoSelection, f.session.State())
	_, ok := f.session.Selected()
	assert.False(t, ok)
	assert.Empty(t, f.session.Draft())
	assert.Equal(t, []string{"a"}, f.session.Names())
	assert.Empty(t, f.warnings)
}

func TestNewReportsCorruptFiles(t *testing.T) {
	mem := testutil.NewMemFS()
	g := persist.NewGateway(appDir, persist.WithFileSystem(mem), persist.WithLogger(quietLogger()))
	mem.Put(g.PresetsPath(), `{broken`)
	mem.Put(g.SettingsPath(), `nope`)

	var warnings []error
	s := New(g, WithLogger(quietLogger()), WithNotifier(NotifierFunc(func(err error) {
		warnings = append(warnings, err)
	})))

	assert.Equal(t, 0, s.Len())
	_, ok := s.TargetPath()
	assert.False(t, ok)
	require.Len(t, warnings, 2)
	assert.Equal(t, errors.ErrCodeInvalidJSON, errors.GetCode(warnings[0]))
}

func TestSelectPreset(t *testing.T) {
	f := newFixture(t, `{"a": {"x": 1, "list": [1]}, "b": {}}`)

	require.NoError(t, f.session.SelectPreset("a"))
	assert.Equal(t, Selected, f.session.State())
	name, ok := f.session.Selected()
	assert.True(t, ok)
	assert.Equal(t, "a", name)
	testutil.RequireJSONEqual(t, `{"x": 1, "list": [1]}`, f.session.Draft())
	assert.Contains(t, f.session.Draft(), "\n  \"x\": 1")

	err := f.session.SelectPreset("missing")
	assert.Equal(t, errors.ErrCodeNotFound, errors.GetCode(err))
	name, _ = f.session.Selected()
	assert.Equal(t, "a", name, "failed select keeps the previous selection")
}

func TestEditDraftRequiresSelection(t *testing.T) {
	f := newFixture(t, `{"a": {}}`)

	err := f.session.EditDraft(`{}`)
	assert.Equal(t, errors.ErrCodeNoSelection, errors.GetCode(err))

	require.NoError(t, f.session.SelectPreset("a"))
	require.NoError(t, f.session.EditDraft(`{not json yet`))
	assert.Equal(t, Editing, f.session.State())
	assert.Equal(t, `{not json yet`, f.session.Draft())
	assert.Equal(t, errors.ErrCodeInvalidJSON, errors.GetCode(f.session.DraftError()))
	assert.Empty(t, f.mem.Writes(), "editing never saves")
}

func TestCommitDraftScenario(t *testing.T) {
	f := newFixture(t, `{"a": {"x": 1}, "b": {"y": 2}}`)

	require.NoError(t, f.session.SelectPreset("a"))
	require.NoError(t, f.session.EditDraft(`{"x":2}`))
	require.NoError(t, f.session.CommitDraft())

	assert.Equal(t, Selected, f.session.State())
	assert.Equal(t, []string{"a", "b"}, f.session.Names())
	assert.True(t, jsondoc.Equal(jsondoc.MustParse(`{"a": {"x": 2}, "b": {"y": 2}}`), f.session.Document()))
	assert.True(t, jsondoc.Equal(f.session.Document(), f.onDisk(t)))
	assert.Equal(t, "{\n  \"x\": 2\n}", f.session.Draft())
}

func TestCommitDraftInvalidJSON(t *testing.T) {
	f := newFixture(t, `{"a": {"x": 1}}`)

	require.NoError(t, f.session.SelectPreset("a"))
	require.NoError(t, f.session.EditDraft(`{invalid`))

	err := f.session.CommitDraft()
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeInvalidJSON, errors.GetCode(err))

	value, _ := f.session.Get("a")
	assert.True(t, jsondoc.Equal(jsondoc.MustParse(`{"x": 1}`), value))
	assert.Equal(t, `{invalid`, f.session.Draft(), "draft kept for correction")
	assert.Equal(t, Editing, f.session.State())
	assert.Empty(t, f.mem.Writes())
}

func TestCommitDraftAcceptsAnyJSONValue(t *testing.T) {
	f := newFixture(t, `{"a": {"x": 1}}`)
	require.NoError(t, f.session.SelectPreset("a"))
	require.NoError(t, f.session.EditDraft(`[1, 2]`))

	require.NoError(t, f.session.CommitDraft())
	value, _ := f.session.Get("a")
	assert.Equal(t, jsondoc.KindArray, value.Kind())
	testutil.RequireJSONEqual(t, `{"a": [1, 2]}`, f.onDisk(t).String())
}

func TestCommitDraftWithoutSelection(t *testing.T) {
	f := newFixture(t, "")
	assert.Equal(t, errors.ErrCodeNoSelection, errors.GetCode(f.session.CommitDraft()))
}

func TestRevertDraft(t *testing.T) {
	f := newFixture(t, `{"a": {"x": 1}}`)
	require.NoError(t, f.session.SelectPreset("a"))
	require.NoError(t, f.session.EditDraft(`[]`))

	require.NoError(t, f.session.RevertDraft())
	assert.Equal(t, Selected, f.session.State())
	testutil.RequireJSONEqual(t, `{"x": 1}`, f.session.Draft())
}

func TestAddPresetSelectsNewEntry(t *testing.T) {
	f := newFixture(t, `{"X": {}, "X_1": {}}`)

	name := f.session.AddPreset("X")
	assert.Equal(t, "X_2", name)
	selected, _ := f.session.Selected()
	assert.Equal(t, "X_2", selected)
	assert.Equal(t, "{}", f.session.Draft())
	assert.Equal(t, []string{"X", "X_1", "X_2"}, f.onDisk(t).Object().Keys())

	assert.Equal(t, "NewPreset", f.session.AddPreset("   "))
}

func TestAddPresetUsesConfiguredName(t *testing.T) {
	mem := testutil.NewMemFS()
	g := persist.NewGateway(appDir, persist.WithFileSystem(mem), persist.WithLogger(quietLogger()))
	s := New(g, WithLogger(quietLogger()), WithNewPresetName("Profile"))

	assert.Equal(t, "Profile", s.AddPreset(""))
	assert.Equal(t, "Profile_1", s.AddPreset(""))
}

func TestRenameSelected(t *testing.T) {
	f := newFixture(t, `{"a": {"x": 1}, "b": {}, "c": {}}`)
	require.NoError(t, f.session.SelectPreset("b"))
	require.NoError(t, f.session.BeginRename())
	assert.True(t, f.session.IsRenaming())

	stored, err := f.session.RenameSelected("  bee  ")
	require.NoError(t, err)
	assert.Equal(t, "bee", stored)
	assert.False(t, f.session.IsRenaming())
	selected, _ := f.session.Selected()
	assert.Equal(t, "bee", selected)
	assert.Equal(t, []string{"a", "bee", "c"}, f.session.Names())
	assert.Equal(t, []string{"a", "bee", "c"}, f.onDisk(t).Object().Keys())
}

func TestRenameErrorsLeaveStateUnchanged(t *testing.T) {
	f := newFixture(t, `{"a": {"x": 1}, "b": {"y": 2}}`)
	require.NoError(t, f.session.SelectPreset("a"))
	before := f.session.Document()

	_, err := f.session.RenameSelected("b")
	assert.Equal(t, errors.ErrCodeDuplicateKey, errors.GetCode(err))

	_, err = f.session.RenameSelected("   ")
	assert.Equal(t, errors.ErrCodeEmptyKey, errors.GetCode(err))

	_, err = f.session.Rename("zzz", "y")
	assert.Equal(t, errors.ErrCodeNotFound, errors.GetCode(err))

	assert.True(t, jsondoc.Equal(before, f.session.Document()))
	assert.Equal(t, []string{"a", "b"}, f.session.Names())
	selected, _ := f.session.Selected()
	assert.Equal(t, "a", selected)
	assert.Empty(t, f.mem.Writes())
}

func TestRenameToSameNameIsNoop(t *testing.T) {
	f := newFixture(t, `{"a": {}}`)
	stored, err := f.session.Rename("a", "a")
	require.NoError(t, err)
	assert.Equal(t, "a", stored)
	assert.Empty(t, f.mem.Writes())
}

func TestBeginAndCancelRename(t *testing.T) {
	f := newFixture(t, `{"a": {}}`)
	assert.Equal(t, errors.ErrCodeNoSelection, errors.GetCode(f.session.BeginRename()))

	require.NoError(t, f.session.SelectPreset("a"))
	require.NoError(t, f.session.BeginRename())
	f.session.CancelRename()
	assert.False(t, f.session.IsRenaming())
}

func TestDelete(t *testing.T) {
	f := newFixture(t, `{"a": {}, "b": {}}`)
	require.NoError(t, f.session.SelectPreset("a"))

	assert.False(t, f.session.Delete("missing"))
	assert.Empty(t, f.mem.Writes())

	assert.True(t, f.session.Delete("b"))
	selected, _ := f.session.Selected()
	assert.Equal(t, "a", selected, "deleting another preset keeps the selection")

	require.NoError(t, f.session.DeleteSelected())
	assert.Equal(t, NoSelection, f.session.State())
	assert.Empty(t, f.session.Draft())
	assert.Equal(t, 0, f.session.Len())
	assert.Equal(t, 0, f.onDisk(t).Object().Len())

	assert.Equal(t, errors.ErrCodeNoSelection, errors.GetCode(f.session.DeleteSelected()))
}

func TestTargetPath(t *testing.T) {
	f := newFixture(t, "")

	f.session.SetTargetPath("/targets/out.json")
	path, ok := f.session.TargetPath()
	require.True(t, ok)
	assert.Equal(t, "/targets/out.json", path)

	content, _ := f.mem.Content(f.gateway.SettingsPath())
	testutil.RequireJSONEqual(t, `{"targetPath": "/targets/out.json"}`, content)
	presets, ok := f.mem.Content(f.gateway.PresetsPath())
	assert.False(t, ok, "settings are stored separately from presets: %s", presets)

	f.session.SetTargetPath("")
	_, ok = f.session.TargetPath()
	assert.False(t, ok)
}

func TestPublishWithoutTarget(t *testing.T) {
	f := newFixture(t, `{"a": {}}`)
	require.NoError(t, f.session.SelectPreset("a"))

	err := f.session.PublishSelected()
	assert.Equal(t, errors.ErrCodeNoTarget, errors.GetCode(err))
	assert.Empty(t, f.mem.Writes())

	f2 := newFixture(t, `{"a": {}}`)
	err = f2.session.PublishSelected()
	assert.Equal(t, errors.ErrCodeNoTarget, errors.GetCode(err), "no target is reported before no selection")
}

func TestPublishWithoutSelection(t *testing.T) {
	f := newFixture(t, `{"a": {}}`)
	f.session.SetTargetPath("/targets/out.json")

	err := f.session.PublishSelected()
	assert.Equal(t, errors.ErrCodeNoSelection, errors.GetCode(err))
	_, ok := f.mem.Content("/targets/out.json")
	assert.False(t, ok)
}

func TestPublishScenario(t *testing.T) {
	f := newFixture(t, `{"A": {"k": "v"}}`)
	f.session.SetTargetPath("/targets/out.json")
	require.NoError(t, f.session.SelectPreset("A"))
	require.NoError(t, f.session.EditDraft(`{"k": "uncommitted"}`))

	require.NoError(t, f.session.PublishSelected())

	content, ok := f.mem.Content("/targets/out.json")
	require.True(t, ok)
	testutil.RequireJSONEqual(t, `{"k": "v"}`, content)
	assert.Equal(t, "{\n  \"k\": \"v\"\n}\n", content)
}

func TestPublishTargetErrors(t *testing.T) {
	f := newFixture(t, `{"A": {}}`)
	f.session.SetTargetPath("/no/such/dir/out.json")

	err := f.session.Publish("A")
	assert.Equal(t, errors.ErrCodeTargetWrite, errors.GetCode(err))

	err = f.session.Publish("B")
	assert.Equal(t, errors.ErrCodeNotFound, errors.GetCode(err))
}

func TestWriteThroughFailureIsAWarning(t *testing.T) {
	f := newFixture(t, `{"a": {}}`)
	f.mem.FailOn(f.gateway.PresetsPath(), testutil.ErrPermission)

	name := f.session.AddPreset("b")
	assert.Equal(t, "b", name)
	assert.Equal(t, []string{"a", "b"}, f.session.Names(), "mutation is not rolled back")
	require.Len(t, f.warnings, 1)
	assert.Equal(t, errors.ErrCodeWriteFailed, errors.GetCode(f.warnings[0]))
}

func TestImportFile(t *testing.T) {
	f := newFixture(t, `{"a": {}, "b": {"old": true}}`)
	require.NoError(t, f.session.SelectPreset("b"))
	f.mem.Put("/in/set.json", `{"z": {"n": 1}, "b": {"new": true}}`)

	require.NoError(t, f.session.ImportFile("/in/set.json"))
	assert.Equal(t, []string{"z", "b"}, f.session.Names())
	selected, _ := f.session.Selected()
	assert.Equal(t, "b", selected)
	testutil.RequireJSONEqual(t, `{"new": true}`, f.session.Draft())
	assert.True(t, jsondoc.Equal(jsondoc.MustParse(`{"z": {"n": 1}, "b": {"new": true}}`), f.onDisk(t)))

	f.mem.Put("/in/other.json", `{"only": {}}`)
	require.NoError(t, f.session.ImportFile("/in/other.json"))
	assert.Equal(t, NoSelection, f.session.State())
}

func TestImportFileErrors(t *testing.T) {
	f := newFixture(t, `{"a": {}}`)
	f.mem.Put("/in/array.json", `[1, 2]`)
	f.mem.Put("/in/bad.json", `{`)

	tests := []struct {
		path string
		want errors.ErrorCode
	}{
		{"/in/array.json", errors.ErrCodeInvalidShape},
		{"/in/bad.json", errors.ErrCodeInvalidJSON},
		{"/in/missing.json", errors.ErrCodeReadFailed},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			err := f.session.ImportFile(tt.path)
			assert.Equal(t, tt.want, errors.GetCode(err))
			assert.Equal(t, []string{"a"}, f.session.Names())
		})
	}
}

func TestImportRoundTrip(t *testing.T) {
	text := `{"b": {"n": 1.50, "s": "é\n"}, "a": [1, {"z": null, "y": false}], "c": "scalar"}`
	f := newFixture(t, "")
	f.mem.Put("/in/set.json", text)

	require.NoError(t, f.session.ImportFile("/in/set.json"))
	require.NoError(t, f.session.ExportAll("/targets/export.json"))

	content, ok := f.mem.Content("/targets/export.json")
	require.True(t, ok)
	testutil.RequireJSONEqual(t, text, content)
}

func TestAddFromFiles(t *testing.T) {
	f := newFixture(t, `{"server": {}}`)
	f.mem.Put("/in/server.json", `{"port": 80}`)
	f.mem.Put("/in/client.preset.json", `{"retries": 3}`)
	f.mem.Put("/in/list.json", `[1]`)

	added, failed := f.session.AddFromFiles(
		"/in/server.json", "/in/list.json", "/in/client.preset.json", "/in/missing.json")

	assert.Equal(t, []string{"server_1", "client.preset"}, added)
	require.Len(t, failed, 2)
	assert.Equal(t, "/in/list.json", failed[0].Path)
	assert.Equal(t, errors.ErrCodeInvalidShape, errors.GetCode(failed[0].Err))
	assert.Equal(t, errors.ErrCodeReadFailed, errors.GetCode(failed[1].Err))

	value, _ := f.session.Get("server_1")
	testutil.RequireJSONEqual(t, `{"port": 80}`, value.String())
	assert.Equal(t, []string{"server", "server_1", "client.preset"}, f.onDisk(t).Object().Keys())
}

func TestSetValue(t *testing.T) {
	f := newFixture(t, `{"a": {"x": 1}}`)
	require.NoError(t, f.session.SelectPreset("a"))

	require.NoError(t, f.session.SetValue("a", jsondoc.MustParse(`{"x": 5}`)))
	testutil.RequireJSONEqual(t, `{"x": 5}`, f.session.Draft())

	err := f.session.SetValue("nope", jsondoc.EmptyObject())
	assert.Equal(t, errors.ErrCodeNotFound, errors.GetCode(err))
}

func TestReload(t *testing.T) {
	f := newFixture(t, `{"a": {"x": 1}, "b": {}}`)
	require.NoError(t, f.session.SelectPreset("a"))
	require.NoError(t, f.session.EditDraft(`{"x": 9}`))

	f.mem.Put(f.gateway.PresetsPath(), `{"a": {"x": 2}}`)
	f.session.Reload()
	selected, ok := f.session.Selected()
	require.True(t, ok)
	assert.Equal(t, "a", selected)
	testutil.RequireJSONEqual(t, `{"x": 2}`, f.session.Draft())

	f.mem.Put(f.gateway.PresetsPath(), `{"c": {}}`)
	f.session.Reload()
	assert.Equal(t, NoSelection, f.session.State())
	assert.Equal(t, []string{"c"}, f.session.Names())
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "no-selection", NoSelection.String())
	assert.Equal(t, "selected", Selected.String())
	assert.Equal(t, "editing", Editing.String())
}
