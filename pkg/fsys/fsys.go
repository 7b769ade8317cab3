// Package fsys is the file-system access layer used by the persistence
// gateway and the shells: whole-file reads and writes, existence checks,
// directory creation, and directory listings filtered by name patterns.
package fsys

import (
	"errors"
	"io/fs"
	"os"
)

// FileSystem is the set of file operations the application needs.
type FileSystem interface {
	// ReadFile returns the whole content of path.
	ReadFile(path string) ([]byte, error)
	// WriteFile replaces the content of path. It does not create parent
	// directories.
	WriteFile(path string, data []byte) error
	// Exists reports whether path exists.
	Exists(path string) (bool, error)
	// MkdirAll creates path and any missing parents.
	MkdirAll(path string) error
}

// OS is a FileSystem backed by the operating system.
type OS struct{}

// NewOS returns the operating system file system.
func NewOS() OS { return OS{} }

func (OS) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

func (OS) WriteFile(path string, data []byte) error {
	return os.WriteFile(path, data, 0o644)
}

func (OS) Exists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, err
}

func (OS) MkdirAll(path string) error {
	return os.MkdirAll(path, 0o755)
}

// IsNotExist reports whether err means a file or directory is missing.
func IsNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}
