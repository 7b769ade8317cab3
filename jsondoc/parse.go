package jsondoc

import (
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
)

// SyntaxError reports text that is not valid JSON.
type SyntaxError struct {
	Text string
}

func (e *SyntaxError) Error() string {
	text := strings.TrimSpace(e.Text)
	if text == "" {
		return "invalid JSON: empty input"
	}
	if len(text) > 40 {
		text = text[:40] + "..."
	}
	return fmt.Sprintf("invalid JSON: %q", text)
}

// Parse parses text into a Value, keeping object keys in document order.
// When a key appears twice in one object the last value wins and the key
// keeps the position of its first occurrence.
func Parse(text string) (Value, error) {
	if !gjson.Valid(text) {
		return Value{}, &SyntaxError{Text: text}
	}
	return fromResult(gjson.Parse(text)), nil
}

// ParseBytes is Parse for a byte slice.
func ParseBytes(data []byte) (Value, error) {
	return Parse(string(data))
}

// MustParse is like Parse but panics on invalid input. Intended for tests
// and literals.
func MustParse(text string) Value {
	v, err := Parse(text)
	if err != nil {
		panic(err)
	}
	return v
}

func fromResult(r gjson.Result) Value {
	switch r.Type {
	case gjson.Null:
		return Null()
	case gjson.False:
		return Bool(false)
	case gjson.True:
		return Bool(true)
	case gjson.Number:
		return Value{kind: KindNumber, num: strings.TrimSpace(r.Raw)}
	case gjson.String:
		return String(r.Str)
	}

	if r.IsArray() {
		items := []Value{}
		r.ForEach(func(_, item gjson.Result) bool {
			items = append(items, fromResult(item))
			return true
		})
		return Value{kind: KindArray, arr: items}
	}

	obj := NewObject()
	r.ForEach(func(key, item gjson.Result) bool {
		obj.Set(key.Str, fromResult(item))
		return true
	})
	return ObjectValue(obj)
}
