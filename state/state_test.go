package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettingsTargetPath(t *testing.T) {
	s := Default()

	_, ok := s.TargetPath()
	assert.False(t, ok)

	s.SetTargetPath("/tmp/claude_desktop_config.json")
	path, ok := s.TargetPath()
	require.True(t, ok)
	assert.Equal(t, "/tmp/claude_desktop_config.json", path)

	s.SetTargetPath("  ")
	_, ok = s.TargetPath()
	assert.False(t, ok, "blank path clears the target")

	s.SetTargetPath("/a")
	s.ClearTargetPath()
	_, ok = s.TargetPath()
	assert.False(t, ok)
}

func TestEncode(t *testing.T) {
	t.Run("unset target is null", func(t *testing.T) {
		data, err := Encode(Default())
		require.NoError(t, err)
		assert.Equal(t, "{\n  \"targetPath\": null\n}\n", string(data))
	})

	t.Run("set target", func(t *testing.T) {
		s := Default()
		s.SetTargetPath("/x/y.json")
		data, err := Encode(s)
		require.NoError(t, err)
		assert.Equal(t, "{\n  \"targetPath\": \"/x/y.json\"\n}\n", string(data))
	})
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantSet bool
		wantErr bool
	}{
		{name: "string", input: `{"targetPath": "/a/b.json"}`, want: "/a/b.json", wantSet: true},
		{name: "null", input: `{"targetPath": null}`},
		{name: "missing key", input: `{}`},
		{name: "extra keys", input: `{"targetPath": "/c", "other": 1}`, want: "/c", wantSet: true},
		{name: "empty string", input: `{"targetPath": ""}`},
		{name: "corrupt", input: `{"targetPath": `, wantErr: true},
		{name: "wrong type", input: `{"targetPath": 5}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Decode([]byte(tt.input))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			path, ok := s.TargetPath()
			assert.Equal(t, tt.wantSet, ok)
			assert.Equal(t, tt.want, path)
		})
	}
}
