// Package preset holds the ordered, uniquely named collection of JSON
// presets edited by the application.
package preset

import (
	"fmt"
	"strings"

	"github.com/grovetools/presets/errors"
	"github.com/grovetools/presets/jsondoc"
)

// DefaultName is used when a caller asks for a new preset without a usable
// name hint.
const DefaultName = "NewPreset"

// Store is an insertion-ordered mapping from preset name to JSON document.
// Names are never empty and never repeated, and renaming an entry leaves it
// in place. A Store is not safe for concurrent use.
type Store struct {
	entries *jsondoc.Object
}

// New returns an empty store.
func New() *Store {
	return &Store{entries: jsondoc.NewObject()}
}

// FromDocument builds a store from a JSON object, one preset per key.
func FromDocument(doc jsondoc.Value) (*Store, error) {
	s := New()
	if err := s.ImportAll(doc); err != nil {
		return nil, err
	}
	return s, nil
}

// Len returns the number of presets.
func (s *Store) Len() int { return s.entries.Len() }

// Names returns the preset names in order.
func (s *Store) Names() []string { return s.entries.Keys() }

// Has reports whether a preset called name exists.
func (s *Store) Has(name string) bool { return s.entries.Has(name) }

// Get returns a copy of the named preset's document.
func (s *Store) Get(name string) (jsondoc.Value, bool) {
	v, ok := s.entries.Get(name)
	if !ok {
		return jsondoc.Value{}, false
	}
	return v.Clone(), true
}

// Index returns the position of name in iteration order, or -1.
func (s *Store) Index(name string) int {
	for i, n := range s.Names() {
		if n == name {
			return i
		}
	}
	return -1
}

// UniqueName returns hint if it is free, otherwise the first free name of
// hint_1, hint_2, ... A store of n entries needs at most n+1 probes.
func (s *Store) UniqueName(hint string) string {
	hint = strings.TrimSpace(hint)
	if hint == "" {
		hint = DefaultName
	}
	if !s.Has(hint) {
		return hint
	}
	for i := 1; ; i++ {
		candidate := fmt.Sprintf("%s_%d", hint, i)
		if !s.Has(candidate) {
			return candidate
		}
	}
}

// Add appends an empty-object preset under a unique name derived from hint
// and returns that name.
func (s *Store) Add(hint string) string {
	name := s.UniqueName(hint)
	s.entries.Set(name, jsondoc.EmptyObject())
	return name
}

// AddFromDocument is Add seeded with doc, which must be a JSON object.
func (s *Store) AddFromDocument(hint string, doc jsondoc.Value) (string, error) {
	if !doc.IsObject() {
		return "", errors.InvalidShape(doc.Kind().String())
	}
	name := s.UniqueName(hint)
	s.entries.Set(name, doc.Clone())
	return name, nil
}

// Delete removes the named preset. Deleting a missing name is a no-op; the
// return value reports whether anything was removed.
func (s *Store) Delete(name string) bool {
	return s.entries.Delete(name)
}

// Rename gives oldName's entry the name newName (trimmed), keeping its
// position and value. It returns the name actually stored. Renaming an entry
// to its own name changes nothing.
func (s *Store) Rename(oldName, newName string) (string, error) {
	newName = strings.TrimSpace(newName)
	if newName == "" {
		return "", errors.EmptyKey()
	}
	if !s.Has(oldName) {
		return "", errors.NotFound(oldName)
	}
	if newName == oldName {
		return oldName, nil
	}
	if s.Has(newName) {
		return "", errors.DuplicateKey(newName)
	}
	if err := s.entries.Rename(oldName, newName); err != nil {
		return "", errors.Wrap(err, errors.ErrCodeInternal, "rename failed").
			WithDetail("from", oldName).
			WithDetail("to", newName)
	}
	return newName, nil
}

// SetValue overwrites the named preset's document.
func (s *Store) SetValue(name string, doc jsondoc.Value) error {
	if !s.Has(name) {
		return errors.NotFound(name)
	}
	s.entries.Set(name, doc.Clone())
	return nil
}

// ImportAll replaces the whole store, contents and order, with the entries
// of doc, which must be a JSON object. Entries whose name is empty or blank
// are rejected.
func (s *Store) ImportAll(doc jsondoc.Value) error {
	if !doc.IsObject() {
		return errors.InvalidShape(doc.Kind().String())
	}
	obj := doc.Object()
	for _, name := range obj.Keys() {
		if strings.TrimSpace(name) == "" {
			return errors.EmptyKey()
		}
	}
	s.entries = obj.Clone()
	return nil
}

// Document returns the store as one JSON object, keys in store order.
func (s *Store) Document() jsondoc.Value {
	return jsondoc.ObjectValue(s.entries.Clone())
}

// Each calls fn for each preset in order until fn returns false.
func (s *Store) Each(fn func(name string, doc jsondoc.Value) bool) {
	s.entries.Each(fn)
}
