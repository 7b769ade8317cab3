// Package state holds the editor settings that are persisted next to the
// presets but independently of them.
package state

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Settings is the persisted editor settings record. Its JSON form is
// {"targetPath": string | null}.
type Settings struct {
	Target *string `json:"targetPath"`
}

// Default returns settings with no target path.
func Default() *Settings {
	return &Settings{}
}

// TargetPath returns the target file path and whether one is set.
func (s *Settings) TargetPath() (string, bool) {
	if s == nil || s.Target == nil {
		return "", false
	}
	return *s.Target, true
}

// SetTargetPath overwrites the target path. A blank path clears it. The path
// is not checked for writability; that happens when publishing.
func (s *Settings) SetTargetPath(path string) {
	if strings.TrimSpace(path) == "" {
		s.Target = nil
		return
	}
	s.Target = &path
}

// ClearTargetPath unsets the target path.
func (s *Settings) ClearTargetPath() {
	s.Target = nil
}

// Decode parses a settings file. Unknown keys are ignored and a missing
// targetPath decodes as unset.
func Decode(data []byte) (*Settings, error) {
	st := Default()
	if err := json.Unmarshal(data, st); err != nil {
		return nil, fmt.Errorf("parse settings: %w", err)
	}
	if st.Target != nil && strings.TrimSpace(*st.Target) == "" {
		st.Target = nil
	}
	return st, nil
}

// Encode renders the settings as indented JSON with a trailing newline.
func Encode(s *Settings) ([]byte, error) {
	if s == nil {
		s = Default()
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal settings: %w", err)
	}
	return append(data, '\n'), nil
}
