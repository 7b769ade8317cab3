// Package testutil holds helpers shared by the package tests: an in-memory
// file system, temporary application directories and JSON assertions.
package testutil

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"testing"

	"github.com/grovetools/presets/jsondoc"
	"github.com/stretchr/testify/require"
)

// MemFS is an in-memory fsys.FileSystem. Like the real one it refuses to
// write into a directory that does not exist.
type MemFS struct {
	mu     sync.Mutex
	files  map[string][]byte
	dirs   map[string]bool
	fail   map[string]error
	writes []string
}

// NewMemFS returns an empty file system whose only directory is "/".
func NewMemFS() *MemFS {
	return &MemFS{
		files: make(map[string][]byte),
		dirs:  map[string]bool{"/": true},
		fail:  make(map[string]error),
	}
}

// ReadFile implements fsys.FileSystem.
func (m *MemFS) ReadFile(path string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	path = filepath.Clean(path)
	if err := m.fail[path]; err != nil {
		return nil, err
	}
	data, ok := m.files[path]
	if !ok {
		return nil, &fs.PathError{Op: "open", Path: path, Err: fs.ErrNotExist}
	}
	return append([]byte(nil), data...), nil
}

// WriteFile implements fsys.FileSystem.
func (m *MemFS) WriteFile(path string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	path = filepath.Clean(path)
	if err := m.fail[path]; err != nil {
		return err
	}
	if !m.dirs[filepath.Dir(path)] {
		return &fs.PathError{Op: "open", Path: path, Err: fs.ErrNotExist}
	}
	m.files[path] = append([]byte(nil), data...)
	m.writes = append(m.writes, path)
	return nil
}

// Exists implements fsys.FileSystem.
func (m *MemFS) Exists(path string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	path = filepath.Clean(path)
	_, isFile := m.files[path]
	return isFile || m.dirs[path], nil
}

// MkdirAll implements fsys.FileSystem.
func (m *MemFS) MkdirAll(path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for p := filepath.Clean(path); !m.dirs[p]; p = filepath.Dir(p) {
		m.dirs[p] = true
	}
	return nil
}

// Put stores a file, creating its directory.
func (m *MemFS) Put(path, content string) {
	_ = m.MkdirAll(filepath.Dir(path))
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[filepath.Clean(path)] = []byte(content)
}

// Content returns a file's content and whether it exists.
func (m *MemFS) Content(path string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.files[filepath.Clean(path)]
	return string(data), ok
}

// FailOn makes every read and write of path return err. A nil err clears it.
func (m *MemFS) FailOn(path string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err == nil {
		delete(m.fail, filepath.Clean(path))
		return
	}
	m.fail[filepath.Clean(path)] = err
}

// Writes returns the paths written so far, in order.
func (m *MemFS) Writes() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.writes...)
}

// Files returns the stored file paths, sorted.
func (m *MemFS) Files() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.files))
	for p := range m.files {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// ErrPermission is a stand-in write failure.
var ErrPermission = fmt.Errorf("simulated: %w", fs.ErrPermission)

// AppDir creates a temporary application directory and points PRESETS_HOME
// at a sibling so nothing touches the user's real directories.
func AppDir(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	t.Setenv("PRESETS_HOME", filepath.Join(root, "home"))
	dir := filepath.Join(root, "app")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	return dir
}

// WriteFile writes content to dir/name and returns the path.
func WriteFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// ReadFile returns the content of path, failing the test if it is missing.
func ReadFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

// RequireJSONEqual asserts that two JSON texts hold equal documents,
// ignoring whitespace and object key order.
func RequireJSONEqual(t *testing.T, expected, actual string) {
	t.Helper()
	want, err := jsondoc.Parse(expected)
	require.NoError(t, err, "expected is not JSON")
	got, err := jsondoc.Parse(actual)
	require.NoError(t, err, "actual is not JSON: %s", actual)
	require.True(t, jsondoc.Equal(want, got), "JSON differs\nwant: %s\n got: %s", want, got)
}

// RandomString generates a random string of the specified length
func RandomString(length int) string {
	bytes := make([]byte, length/2+1)
	if _, err := rand.Read(bytes); err != nil {
		panic(err)
	}
	return hex.EncodeToString(bytes)[:length]
}
