package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/grovetools/presets/config"
	"github.com/grovetools/presets/errors"
	"github.com/grovetools/presets/tui/theme"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetOptions(t *testing.T) {
	cmd := NewStandardCommand("presets", "test")
	cmd.RunE = func(*cobra.Command, []string) error { return nil }
	cmd.SetArgs([]string{"--json", "-v", "--data-dir", "/tmp/x", "-c", "/tmp/presets.yml"})
	require.NoError(t, cmd.Execute())

	opts := GetOptions(cmd)
	assert.True(t, opts.JSONOutput)
	assert.True(t, opts.Verbose)
	assert.Equal(t, "/tmp/x", opts.DataDir)
	assert.Equal(t, "/tmp/presets.yml", opts.ConfigFile)
}

func TestResolveDataDir(t *testing.T) {
	t.Setenv("PRESETS_HOME", "/portable")

	dir, err := ResolveDataDir(CommandOptions{}, nil)
	require.NoError(t, err)
	assert.Equal(t, "/portable/data", dir)

	dir, err = ResolveDataDir(CommandOptions{}, &config.Config{DataDir: "/from/config"})
	require.NoError(t, err)
	assert.Equal(t, "/from/config", dir)

	dir, err = ResolveDataDir(CommandOptions{DataDir: "/from/flag"}, &config.Config{DataDir: "/from/config"})
	require.NoError(t, err)
	assert.Equal(t, "/from/flag", dir)
}

func TestErrorHandler(t *testing.T) {
	var buf bytes.Buffer
	h := &ErrorHandler{Verbose: true, Out: &buf}

	err := errors.NotFound("Alpha")
	assert.Same(t, err, h.Handle(err))
	out := buf.String()
	assert.Contains(t, out, "preset 'Alpha' not found")
	assert.Contains(t, out, "presets list")
	assert.Contains(t, out, `"code": "NOT_FOUND"`)

	assert.Nil(t, h.Handle(nil))
}

func TestHint(t *testing.T) {
	assert.Contains(t, Hint(errors.NoTarget()), "presets target")
	assert.Contains(t, Hint(errors.DuplicateKey("B")), "'B'")
	assert.Empty(t, Hint(assert.AnError))
}

func TestRenderHelp(t *testing.T) {
	root := NewStandardCommand("presets", "Manage JSON presets")
	child := &cobra.Command{
		Use:   "publish NAME",
		Short: "Write a preset to the target file",
		Long: `Write a preset to the target file.

Examples:
  # publish one preset
  presets publish Alpha`,
		RunE: func(*cobra.Command, []string) error { return nil },
	}
	child.Flags().Bool("force", false, "Skip checks")
	root.AddCommand(child)

	var buf bytes.Buffer
	renderHelp(&buf, child, theme.NewThemeWithName("terminal"), 60)
	out := buf.String()
	assert.Contains(t, out, "PRESETS PUBLISH")
	assert.Contains(t, out, "USAGE")
	assert.Contains(t, out, "--force")
	assert.Contains(t, out, "# publish one preset")
	assert.Contains(t, out, "Alpha")

	buf.Reset()
	renderHelp(&buf, root, theme.NewThemeWithName("terminal"), 60)
	assert.Contains(t, buf.String(), "COMMANDS")
	assert.Contains(t, buf.String(), "publish")
}

func TestWrapText(t *testing.T) {
	wrapped := wrapText(strings.Repeat("word ", 30), 20)
	for _, line := range strings.Split(wrapped, "\n") {
		assert.LessOrEqual(t, len(line), 20)
	}
}
