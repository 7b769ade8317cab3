package fsys

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/moby/patternmatcher"
)

// DefaultPatterns limits pickers to JSON files.
var DefaultPatterns = []string{"*.json"}

// Filter matches file names against .dockerignore-style patterns. Patterns
// are matched against the base name, so "*.json" accepts JSON files in any
// directory. A leading "!" excludes.
type Filter struct {
	patterns []string
	pm       *patternmatcher.PatternMatcher
}

// NewFilter compiles patterns. No patterns means everything matches.
func NewFilter(patterns []string) (*Filter, error) {
	f := &Filter{patterns: append([]string(nil), patterns...)}
	if len(patterns) == 0 {
		return f, nil
	}
	pm, err := patternmatcher.New(patterns)
	if err != nil {
		return nil, fmt.Errorf("invalid file pattern: %w", err)
	}
	f.pm = pm
	return f, nil
}

// Patterns returns the patterns the filter was built from.
func (f *Filter) Patterns() []string {
	return append([]string(nil), f.patterns...)
}

// Match reports whether the file at path passes the filter.
func (f *Filter) Match(path string) bool {
	if f == nil || f.pm == nil {
		return true
	}
	ok, err := f.pm.MatchesOrParentMatches(filepath.Base(path))
	return err == nil && ok
}

// Entry is one row of a directory listing.
type Entry struct {
	Name  string
	Path  string
	IsDir bool
	Size  int64
}

// ListDir returns the sub-directories of dir and the files in dir that pass
// the filter, directories first, each group sorted by name. Hidden entries
// are skipped unless showHidden is set.
func ListDir(dir string, f *Filter, showHidden bool) ([]Entry, error) {
	items, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var dirs, files []Entry
	for _, item := range items {
		name := item.Name()
		if !showHidden && strings.HasPrefix(name, ".") {
			continue
		}
		full := filepath.Join(dir, name)
		if item.IsDir() {
			dirs = append(dirs, Entry{Name: name, Path: full, IsDir: true})
			continue
		}
		if !f.Match(full) {
			continue
		}
		var size int64
		if info, err := item.Info(); err == nil {
			size = info.Size()
		}
		files = append(files, Entry{Name: name, Path: full, Size: size})
	}

	sort.Slice(dirs, func(i, j int) bool { return dirs[i].Name < dirs[j].Name })
	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })
	return append(dirs, files...), nil
}

// Expand turns a mix of file and directory arguments into a file list.
// Directories contribute the files directly inside them that pass the
// filter; files named explicitly are always kept.
func Expand(paths []string, f *Filter) ([]string, error) {
	var out []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			out = append(out, p)
			continue
		}
		entries, err := ListDir(p, f, false)
		if err != nil {
			return nil, err
		}
		for _, e := range entries {
			if !e.IsDir {
				out = append(out, e.Path)
			}
		}
	}
	return out, nil
}
