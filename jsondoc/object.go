package jsondoc

import (
	"errors"
	"fmt"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

var (
	// ErrKeyNotFound is returned when an operation names a missing key.
	ErrKeyNotFound = errors.New("key not found")
	// ErrKeyExists is returned when a rename would collide with another key.
	ErrKeyExists = errors.New("key already exists")
)

// Object is a JSON object whose keys iterate in insertion order.
type Object struct {
	m *orderedmap.OrderedMap[string, Value]
}

// NewObject returns an empty object.
func NewObject() *Object {
	return &Object{m: orderedmap.New[string, Value]()}
}

// Len returns the number of keys.
func (o *Object) Len() int {
	if o == nil {
		return 0
	}
	return o.m.Len()
}

// Get returns the value stored under key.
func (o *Object) Get(key string) (Value, bool) {
	if o == nil {
		return Value{}, false
	}
	return o.m.Get(key)
}

// Has reports whether key is present.
func (o *Object) Has(key string) bool {
	_, ok := o.Get(key)
	return ok
}

// Set stores v under key. A new key is appended at the end; an existing key
// keeps its position.
func (o *Object) Set(key string, v Value) {
	o.m.Set(key, v)
}

// Delete removes key and reports whether it was present.
func (o *Object) Delete(key string) bool {
	_, ok := o.m.Delete(key)
	return ok
}

// Rename changes oldKey to newKey without moving the entry.
func (o *Object) Rename(oldKey, newKey string) error {
	if oldKey == newKey {
		if !o.Has(oldKey) {
			return fmt.Errorf("%w: %s", ErrKeyNotFound, oldKey)
		}
		return nil
	}
	v, ok := o.m.Get(oldKey)
	if !ok {
		return fmt.Errorf("%w: %s", ErrKeyNotFound, oldKey)
	}
	if o.Has(newKey) {
		return fmt.Errorf("%w: %s", ErrKeyExists, newKey)
	}

	o.m.Set(newKey, v)
	if err := o.m.MoveAfter(newKey, oldKey); err != nil {
		o.m.Delete(newKey)
		return err
	}
	o.m.Delete(oldKey)
	return nil
}

// Keys returns the keys in iteration order.
func (o *Object) Keys() []string {
	if o == nil {
		return nil
	}
	keys := make([]string, 0, o.m.Len())
	for pair := o.m.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	return keys
}

// Each calls fn for every entry in order until fn returns false.
func (o *Object) Each(fn func(key string, v Value) bool) {
	if o == nil {
		return
	}
	for pair := o.m.Oldest(); pair != nil; pair = pair.Next() {
		if !fn(pair.Key, pair.Value) {
			return
		}
	}
}

// Clone returns a deep copy of o.
func (o *Object) Clone() *Object {
	out := NewObject()
	o.Each(func(key string, v Value) bool {
		out.m.Set(key, v.Clone())
		return true
	})
	return out
}
