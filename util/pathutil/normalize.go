package pathutil

import (
	"path/filepath"
	"runtime"
	"strings"
)

// Canonical resolves path to an absolute, symlink-free form for comparison.
// A file that does not exist yet is resolved through its parent directory.
// Paths are lowercased where the platform file system ignores case.
func Canonical(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}

	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		resolved = abs
		if dir, derr := filepath.EvalSymlinks(filepath.Dir(abs)); derr == nil {
			resolved = filepath.Join(dir, filepath.Base(abs))
		}
	}

	if caseInsensitive() {
		resolved = strings.ToLower(resolved)
	}
	return resolved, nil
}

func caseInsensitive() bool {
	return runtime.GOOS == "darwin" || runtime.GOOS == "windows"
}

// SamePath reports whether a and b name the same file. The gateway uses it
// to refuse publishing over its own presets or settings file.
func SamePath(a, b string) (bool, error) {
	ca, err := Canonical(a)
	if err != nil {
		return false, err
	}
	cb, err := Canonical(b)
	if err != nil {
		return false, err
	}
	return ca == cb, nil
}
