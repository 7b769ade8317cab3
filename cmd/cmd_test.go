package cmd

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/grovetools/presets/errors"
	"github.com/grovetools/presets/pkg/paths"
	"github.com/grovetools/presets/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cliEnv struct {
	t       *testing.T
	dataDir string
	tmp     string
}

func newCLIEnv(t *testing.T) *cliEnv {
	t.Helper()
	home := t.TempDir()
	t.Setenv(paths.HomeEnv, home)
	return &cliEnv{t: t, dataDir: filepath.Join(home, "store"), tmp: t.TempDir()}
}

// run executes a fresh command tree against the env's data directory.
func (e *cliEnv) run(args ...string) (string, string, error) {
	e.t.Helper()
	root := NewRootCmd()
	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetIn(strings.NewReader(""))
	root.SetArgs(append([]string{"--data-dir", e.dataDir}, args...))
	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func (e *cliEnv) mustRun(args ...string) string {
	e.t.Helper()
	out, stderr, err := e.run(args...)
	require.NoError(e.t, err, "presets %s: %s", strings.Join(args, " "), stderr)
	return out
}

func (e *cliEnv) names() []string {
	e.t.Helper()
	var summaries []PresetSummary
	require.NoError(e.t, json.Unmarshal([]byte(e.mustRun("list", "--json")), &summaries))
	names := make([]string, 0, len(summaries))
	for _, s := range summaries {
		names = append(names, s.Name)
	}
	return names
}

func TestListEmpty(t *testing.T) {
	e := newCLIEnv(t)
	assert.Equal(t, "[]\n", e.mustRun("list", "--json"))

	_, stderr, err := e.run("list")
	require.NoError(t, err)
	assert.Contains(t, stderr, "No presets yet")
}

func TestAddRenameDelete(t *testing.T) {
	e := newCLIEnv(t)

	var added map[string]string
	require.NoError(t, json.Unmarshal([]byte(e.mustRun("add", "Work", "--json")), &added))
	assert.Equal(t, "Work", added["name"])
	e.mustRun("add", "Work")
	e.mustRun("add", "Home")
	assert.Equal(t, []string{"Work", "Work_1", "Home"}, e.names())

	e.mustRun("rename", "Work_1", "Travel")
	assert.Equal(t, []string{"Work", "Travel", "Home"}, e.names())

	_, _, err := e.run("rename", "Travel", "Home")
	assert.True(t, errors.Is(err, errors.ErrCodeDuplicateKey))

	e.mustRun("delete", "Travel")
	assert.Equal(t, []string{"Work", "Home"}, e.names())

	_, stderr, err := e.run("rm", "Nope", "--yes")
	require.NoError(t, err)
	assert.Contains(t, stderr, "nothing deleted")
}

func TestListTable(t *testing.T) {
	e := newCLIEnv(t)
	e.mustRun("add", "Work")
	e.mustRun("set", "Work", "theme", "dark", "--string")

	out := e.mustRun("list")
	assert.Contains(t, out, "NAME")
	assert.Contains(t, out, "Work")
}

func TestSetAndShow(t *testing.T) {
	e := newCLIEnv(t)
	e.mustRun("add", "Work")

	e.mustRun("set", "Work", "mcp.command", `"npx"`)
	e.mustRun("set", "Work", "mcp.args", `["-y", "server"]`)
	e.mustRun("set", "Work", "theme", "dark", "--string")

	assert.Equal(t, `{"mcp":{"command":"npx","args":["-y","server"]},"theme":"dark"}`+"\n",
		e.mustRun("show", "Work", "--compact"))
	assert.Equal(t, `"server"`+"\n", e.mustRun("show", "Work", "mcp.args.1", "--compact"))
	testutil.RequireJSONEqual(t, `{"command": "npx", "args": ["-y", "server"]}`, e.mustRun("show", "Work", "mcp"))

	e.mustRun("set", "Work", "theme", "--delete")
	assert.Equal(t, `{"mcp":{"command":"npx","args":["-y","server"]}}`+"\n", e.mustRun("show", "Work", "--compact"))

	_, _, err := e.run("show", "Work", "missing.path")
	assert.True(t, errors.Is(err, errors.ErrCodeNotFound))

	_, _, err = e.run("set", "Work", "x", "{broken")
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidJSON))

	_, _, err = e.run("show", "Nope")
	assert.True(t, errors.Is(err, errors.ErrCodeNotFound))
}

func TestSetOnNonObjectPreset(t *testing.T) {
	e := newCLIEnv(t)
	e.mustRun("add", "List")
	src := testutil.WriteFile(t, e.tmp, "list.json", `[1, 2]`)
	e.mustRun("edit", "List", "--file", src)

	e.mustRun("set", "List", "1", "5")
	assert.Equal(t, `[1,5]`+"\n", e.mustRun("show", "List", "--compact"))
}

func TestTargetAndPublish(t *testing.T) {
	e := newCLIEnv(t)
	e.mustRun("add", "Work")
	e.mustRun("set", "Work", "port", "8080")

	_, _, err := e.run("publish", "Work")
	assert.True(t, errors.Is(err, errors.ErrCodeNoTarget))

	target := filepath.Join(e.tmp, "app.json")
	e.mustRun("target", target)
	assert.Equal(t, target+"\n", e.mustRun("target"))

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(e.mustRun("target", "--json")), &out))
	assert.Equal(t, target, out["targetPath"])

	e.mustRun("publish", "Work")
	testutil.RequireJSONEqual(t, `{"port": 8080}`, testutil.ReadFile(t, target))

	e.mustRun("target", "--clear")
	require.NoError(t, json.Unmarshal([]byte(e.mustRun("target", "--json")), &out))
	assert.Nil(t, out["targetPath"])
}

func TestExportImport(t *testing.T) {
	e := newCLIEnv(t)
	e.mustRun("add", "B")
	e.mustRun("add", "A")
	export := filepath.Join(e.tmp, "all.json")

	e.mustRun("export", export)
	testutil.RequireJSONEqual(t, `{"B": {}, "A": {}}`, testutil.ReadFile(t, export))

	in := testutil.WriteFile(t, e.tmp, "in.json", `{"Z": {"z": 1}, "Y": {}}`)
	e.mustRun("import", in)
	assert.Equal(t, []string{"Z", "Y"}, e.names())

	bad := testutil.WriteFile(t, e.tmp, "bad.json", `[1]`)
	_, _, err := e.run("import", bad)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidShape))
	assert.Equal(t, []string{"Z", "Y"}, e.names())
}

func TestAddFile(t *testing.T) {
	e := newCLIEnv(t)
	dir := filepath.Join(e.tmp, "in")
	testutil.WriteFile(t, dir, "one.json", `{"a": 1}`)
	testutil.WriteFile(t, dir, "two.json", `[]`)
	testutil.WriteFile(t, dir, "notes.txt", `{}`)

	_, stderr, err := e.run("add-file", dir)
	require.NoError(t, err)
	assert.Contains(t, stderr, "two.json")
	assert.Equal(t, []string{"one"}, e.names())

	_, _, err = e.run("add-file", filepath.Join(dir, "two.json"))
	assert.Error(t, err)
}

func TestEditFromFile(t *testing.T) {
	e := newCLIEnv(t)
	e.mustRun("add", "Work")
	src := testutil.WriteFile(t, e.tmp, "work.json", `{"edited": true}`)

	e.mustRun("edit", "Work", "--file", src)
	assert.Equal(t, `{"edited":true}`+"\n", e.mustRun("show", "Work", "--compact"))

	bad := testutil.WriteFile(t, e.tmp, "bad.json", `{"edited": `)
	_, _, err := e.run("edit", "Work", "--file", bad)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidJSON))
	assert.Equal(t, `{"edited":true}`+"\n", e.mustRun("show", "Work", "--compact"))
}

func TestPathsJSON(t *testing.T) {
	e := newCLIEnv(t)
	var out PathsOutput
	require.NoError(t, json.Unmarshal([]byte(e.mustRun("paths", "--json")), &out))

	assert.Equal(t, e.dataDir, out.DataDir)
	assert.Equal(t, filepath.Join(e.dataDir, "app_config.json"), out.PresetsFile)
	assert.Equal(t, filepath.Join(e.dataDir, "editor_settings.json"), out.SettingsFile)
	assert.Empty(t, out.TargetPath)

	assert.Contains(t, e.mustRun("paths"), "presets_file:")
}

func TestVersion(t *testing.T) {
	e := newCLIEnv(t)
	assert.True(t, strings.HasPrefix(e.mustRun("version"), "presets "))
}
