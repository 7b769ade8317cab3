package keymap

import (
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

func TestSequenceStateProcessKey(t *testing.T) {
	top := key.NewBinding(key.WithKeys("gg"))
	del := key.NewBinding(key.WithKeys("dd"))

	tests := []struct {
		name string
		keys []string
		want SequenceResult
		idx  int
	}{
		{"single g is pending", []string{"g"}, SequencePending, -1},
		{"gg matches", []string{"g", "g"}, SequenceMatch, 0},
		{"dd matches", []string{"d", "d"}, SequenceMatch, 1},
		{"gd is none", []string{"g", "d"}, SequenceNone, -1},
		{"x is none", []string{"x"}, SequenceNone, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSequenceState()
			var result SequenceResult
			var idx int
			for _, k := range tt.keys {
				result, idx = s.ProcessKey(k, top, del)
			}
			if result != tt.want || idx != tt.idx {
				t.Errorf("ProcessKey(%v) = (%v, %d), want (%v, %d)", tt.keys, result, idx, tt.want, tt.idx)
			}
		})
	}
}

func TestSequenceStateTimeout(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	s := NewSequenceStateWithTimeout(time.Second)
	s.now = func() time.Time { return now }

	s.UpdateKey("d")
	now = now.Add(2 * time.Second)
	if got := s.UpdateKey("d"); got != "d" {
		t.Errorf("buffer after timeout = %q, want %q", got, "d")
	}

	now = now.Add(100 * time.Millisecond)
	if got := s.UpdateKey("d"); got != "dd" {
		t.Errorf("buffer within timeout = %q, want %q", got, "dd")
	}
}

func TestSequenceStateProcessMsg(t *testing.T) {
	s := NewSequenceState()
	del := key.NewBinding(key.WithKeys("dd"))

	msg := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'d'}}
	if result, _ := s.Process(msg, del); result != SequencePending {
		t.Fatalf("first d = %v", result)
	}
	if !s.IsPending() || s.Buffer() != "d" {
		t.Errorf("buffer = %q", s.Buffer())
	}
	if result, idx := s.Process(msg, del); result != SequenceMatch || idx != 0 {
		t.Errorf("second d = (%v, %d)", result, idx)
	}
	s.Clear()
	if s.IsPending() {
		t.Error("Clear should empty the buffer")
	}
}

func TestSequenceResultString(t *testing.T) {
	if SequenceNone.String() != "none" || SequencePending.String() != "pending" || SequenceMatch.String() != "match" {
		t.Error("unexpected SequenceResult strings")
	}
}
