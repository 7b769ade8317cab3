package jsondoc

import (
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// Query looks up a dotted gjson path (for example "mcp.servers.0.name")
// inside v. An empty path returns v itself.
func (v Value) Query(path string) (Value, bool) {
	if path == "" {
		return v, true
	}
	r := gjson.GetBytes(v.Compact(), path)
	if !r.Exists() {
		return Value{}, false
	}
	return fromResult(r), true
}

// SetPath returns a copy of v with the value at path replaced by x. Missing
// intermediate objects are created.
func (v Value) SetPath(path string, x Value) (Value, error) {
	out, err := sjson.SetRawBytes(v.Compact(), path, x.Compact())
	if err != nil {
		return Value{}, err
	}
	return ParseBytes(out)
}

// DeletePath returns a copy of v without the value at path.
func (v Value) DeletePath(path string) (Value, error) {
	out, err := sjson.DeleteBytes(v.Compact(), path)
	if err != nil {
		return Value{}, err
	}
	return ParseBytes(out)
}

// JoinPath appends one object key or array index to a path, escaping the
// characters the path syntax treats specially.
func JoinPath(parent, key string) string {
	key = gjson.Escape(key)
	if parent == "" {
		return key
	}
	return parent + "." + key
}
