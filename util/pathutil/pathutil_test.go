package pathutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpand(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("PRESET_TEST_DIR", "/opt/app")

	got, err := Expand("~/claude/config.json")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "claude", "config.json"), got)

	got, err = Expand("$PRESET_TEST_DIR/config.json")
	require.NoError(t, err)
	assert.Equal(t, "/opt/app/config.json", got)

	got, err = Expand("relative.json")
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(got))

	_, err = Expand("   ")
	assert.Error(t, err)
}

func TestSamePath(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "a.json")
	require.NoError(t, os.WriteFile(file, []byte("{}"), 0o644))

	same, err := SamePath(file, filepath.Join(dir, "sub", "..", "a.json"))
	require.NoError(t, err)
	assert.True(t, same)

	same, err = SamePath(file, filepath.Join(dir, "b.json"))
	require.NoError(t, err)
	assert.False(t, same)
}
