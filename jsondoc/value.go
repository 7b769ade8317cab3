// Package jsondoc implements an order-preserving JSON document model.
//
// A Value is a tagged union over the six JSON kinds. Objects keep their keys
// in insertion order and numbers keep their literal text, so a document that
// is parsed and serialized again produces the same keys, in the same order,
// with the same numbers.
package jsondoc

import (
	"math/big"
	"strconv"
)

// Kind identifies which member of the union a Value holds.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

// String returns the JSON name of the kind.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "boolean"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return "unknown"
	}
}

// Value is an immutable-by-convention JSON value. The zero Value is null.
type Value struct {
	kind Kind
	b    bool
	num  string
	str  string
	arr  []Value
	obj  *Object
}

// Null returns the JSON null value.
func Null() Value { return Value{} }

// Bool returns a JSON boolean.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Int returns a JSON number holding n.
func Int(n int64) Value {
	return Value{kind: KindNumber, num: strconv.FormatInt(n, 10)}
}

// Float returns a JSON number holding f in its shortest representation.
func Float(f float64) Value {
	return Value{kind: KindNumber, num: strconv.FormatFloat(f, 'g', -1, 64)}
}

// String returns a JSON string.
func String(s string) Value { return Value{kind: KindString, str: s} }

// Array returns a JSON array of the given items.
func Array(items ...Value) Value {
	arr := make([]Value, len(items))
	copy(arr, items)
	return Value{kind: KindArray, arr: arr}
}

// ObjectValue wraps o as a Value. A nil o yields an empty object.
func ObjectValue(o *Object) Value {
	if o == nil {
		o = NewObject()
	}
	return Value{kind: KindObject, obj: o}
}

// EmptyObject returns a new, empty JSON object.
func EmptyObject() Value { return ObjectValue(NewObject()) }

// Kind reports which JSON kind v holds.
func (v Value) Kind() Kind { return v.kind }

// IsObject reports whether v is a JSON object.
func (v Value) IsObject() bool { return v.kind == KindObject }

// IsNull reports whether v is JSON null.
func (v Value) IsNull() bool { return v.kind == KindNull }

// AsBool returns the boolean held by v.
func (v Value) AsBool() (bool, bool) { return v.b, v.kind == KindBool }

// AsNumber returns the literal text of the number held by v.
func (v Value) AsNumber() (string, bool) { return v.num, v.kind == KindNumber }

// AsFloat returns the number held by v as a float64.
func (v Value) AsFloat() (float64, bool) {
	if v.kind != KindNumber {
		return 0, false
	}
	f, err := strconv.ParseFloat(v.num, 64)
	return f, err == nil
}

// AsString returns the string held by v.
func (v Value) AsString() (string, bool) { return v.str, v.kind == KindString }

// Items returns a copy of the elements of an array value.
func (v Value) Items() []Value {
	if v.kind != KindArray {
		return nil
	}
	out := make([]Value, len(v.arr))
	copy(out, v.arr)
	return out
}

// Object returns the object held by v, or nil for other kinds.
// The returned object is shared with v; use Clone before mutating.
func (v Value) Object() *Object {
	if v.kind != KindObject {
		return nil
	}
	return v.obj
}

// Clone returns a deep copy of v.
func (v Value) Clone() Value {
	switch v.kind {
	case KindArray:
		arr := make([]Value, len(v.arr))
		for i, item := range v.arr {
			arr[i] = item.Clone()
		}
		return Value{kind: KindArray, arr: arr}
	case KindObject:
		return Value{kind: KindObject, obj: v.obj.Clone()}
	default:
		return v
	}
}

// numbersEqual compares two JSON number literals exactly, so 1.0 equals 1
// and integers beyond float64 precision stay distinct.
func numbersEqual(a, b string) bool {
	if a == b {
		return true
	}
	var ra, rb big.Rat
	if _, ok := ra.SetString(a); !ok {
		return false
	}
	if _, ok := rb.SetString(b); !ok {
		return false
	}
	return ra.Cmp(&rb) == 0
}

// Equal reports whether a and b hold the same JSON data. Object keys are
// compared as a set, so key order does not matter; numbers compare by value.
func Equal(a, b Value) bool {
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case KindNull:
		return true
	case KindBool:
		return a.b == b.b
	case KindNumber:
		return numbersEqual(a.num, b.num)
	case KindString:
		return a.str == b.str
	case KindArray:
		if len(a.arr) != len(b.arr) {
			return false
		}
		for i := range a.arr {
			if !Equal(a.arr[i], b.arr[i]) {
				return false
			}
		}
		return true
	case KindObject:
		if a.obj.Len() != b.obj.Len() {
			return false
		}
		equal := true
		a.obj.Each(func(key string, av Value) bool {
			bv, ok := b.obj.Get(key)
			if !ok || !Equal(av, bv) {
				equal = false
				return false
			}
			return true
		})
		return equal
	}
	return false
}
