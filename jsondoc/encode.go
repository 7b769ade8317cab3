package jsondoc

import (
	"bytes"
	"strconv"
	"unicode/utf8"

	"github.com/tidwall/pretty"
)

// prettyOptions renders two-space indentation with one array element per
// line. Width 0 turns off pretty's single-line array packing.
var prettyOptions = &pretty.Options{
	Width:    0,
	Prefix:   "",
	Indent:   "  ",
	SortKeys: false,
}

// Compact returns v as JSON text without insignificant whitespace.
func (v Value) Compact() []byte {
	var buf bytes.Buffer
	v.writeTo(&buf)
	return buf.Bytes()
}

// Pretty returns v as JSON text indented with two spaces, keys in order,
// terminated by a newline.
func (v Value) Pretty() []byte {
	return pretty.PrettyOptions(v.Compact(), prettyOptions)
}

// PrettyString is Pretty without the trailing newline, as shown in editors.
func (v Value) PrettyString() string {
	return string(bytes.TrimRight(v.Pretty(), "\n"))
}

// String returns the compact JSON text of v.
func (v Value) String() string {
	return string(v.Compact())
}

// MarshalJSON implements json.Marshaler.
func (v Value) MarshalJSON() ([]byte, error) {
	return v.Compact(), nil
}

// UnmarshalJSON implements json.Unmarshaler, preserving key order.
func (v *Value) UnmarshalJSON(data []byte) error {
	parsed, err := ParseBytes(data)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

func (v Value) writeTo(buf *bytes.Buffer) {
	switch v.kind {
	case KindNull:
		buf.WriteString("null")
	case KindBool:
		buf.WriteString(strconv.FormatBool(v.b))
	case KindNumber:
		buf.WriteString(v.num)
	case KindString:
		writeString(buf, v.str)
	case KindArray:
		buf.WriteByte('[')
		for i, item := range v.arr {
			if i > 0 {
				buf.WriteByte(',')
			}
			item.writeTo(buf)
		}
		buf.WriteByte(']')
	case KindObject:
		buf.WriteByte('{')
		first := true
		v.obj.Each(func(key string, item Value) bool {
			if !first {
				buf.WriteByte(',')
			}
			first = false
			writeString(buf, key)
			buf.WriteByte(':')
			item.writeTo(buf)
			return true
		})
		buf.WriteByte('}')
	}
}

const hexDigits = "0123456789abcdef"

// writeString quotes s the way JSON.stringify does: only quotes, backslashes
// and control characters are escaped; HTML characters are left alone.
func writeString(buf *bytes.Buffer, s string) {
	buf.WriteByte('"')
	for i := 0; i < len(s); {
		c := s[i]
		if c >= utf8.RuneSelf {
			r, size := utf8.DecodeRuneInString(s[i:])
			if r == utf8.RuneError && size == 1 {
				buf.WriteString(`�`)
			} else {
				buf.WriteString(s[i : i+size])
			}
			i += size
			continue
		}
		switch c {
		case '"':
			buf.WriteString(`\"`)
		case '\\':
			buf.WriteString(`\\`)
		case '\n':
			buf.WriteString(`\n`)
		case '\r':
			buf.WriteString(`\r`)
		case '\t':
			buf.WriteString(`\t`)
		case '\b':
			buf.WriteString(`\b`)
		case '\f':
			buf.WriteString(`\f`)
		default:
			if c < 0x20 {
				buf.WriteString(`\u00`)
				buf.WriteByte(hexDigits[c>>4])
				buf.WriteByte(hexDigits[c&0xf])
			} else {
				buf.WriteByte(c)
			}
		}
		i++
	}
	buf.WriteByte('"')
}
