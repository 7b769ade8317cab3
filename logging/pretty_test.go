package logging

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrettyLogger(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrettyLogger().WithWriter(&buf)

	p.Success("Published Alpha")
	p.WarnPretty("settings file was unreadable")
	p.ErrorPretty("Publish failed", errors.New("permission denied"))
	p.Path("target", "/tmp/out.json")
	p.Field("presets", 2)
	p.Code("{\n  \"a\": 1\n}\n")

	out := buf.String()
	assert.Contains(t, out, "Published Alpha")
	assert.Contains(t, out, "settings file was unreadable")
	assert.Contains(t, out, "permission denied")
	assert.Contains(t, out, "/tmp/out.json")
	assert.Contains(t, out, "presets")
	assert.Contains(t, out, `  "a": 1`)
}
