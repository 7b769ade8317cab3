package keymap

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// DefaultSequenceTimeout is how long a partial sequence such as "d" waits
// for its next key.
const DefaultSequenceTimeout = time.Second

// SequenceState buffers key presses so multi-key bindings like "gg" and
// "dd" can be matched.
type SequenceState struct {
	buffer     string
	lastUpdate time.Time
	timeout    time.Duration
	now        func() time.Time
}

// NewSequenceState creates a sequence buffer with DefaultSequenceTimeout.
func NewSequenceState() *SequenceState {
	return NewSequenceStateWithTimeout(DefaultSequenceTimeout)
}

// NewSequenceStateWithTimeout creates a sequence buffer that forgets a
// partial sequence after timeout. Zero means never.
func NewSequenceStateWithTimeout(timeout time.Duration) *SequenceState {
	return &SequenceState{timeout: timeout, now: time.Now}
}

// Update appends the key to the buffer and returns it.
func (s *SequenceState) Update(msg tea.KeyMsg) string {
	return s.UpdateKey(msg.String())
}

// UpdateKey is Update for a key string.
func (s *SequenceState) UpdateKey(keyStr string) string {
	now := s.now()
	if s.timeout > 0 && now.Sub(s.lastUpdate) > s.timeout {
		s.buffer = ""
	}
	s.lastUpdate = now
	s.buffer += keyStr
	return s.buffer
}

// Clear empties the buffer.
func (s *SequenceState) Clear() {
	s.buffer = ""
}

// Buffer returns the pending keys.
func (s *SequenceState) Buffer() string {
	return s.buffer
}

// IsPending reports whether a partial sequence is buffered.
func (s *SequenceState) IsPending() bool {
	return s.buffer != ""
}

// Matches reports whether one of the binding's keys equals buffer.
func Matches(buffer string, binding key.Binding) bool {
	for _, k := range binding.Keys() {
		if k == buffer {
			return true
		}
	}
	return false
}

// MatchesAny returns the index of the first binding matching buffer.
func MatchesAny(buffer string, bindings ...key.Binding) (int, bool) {
	for i, binding := range bindings {
		if Matches(buffer, binding) {
			return i, true
		}
	}
	return -1, false
}

// IsPrefix reports whether buffer is a strict prefix of one of the
// binding's keys, e.g. "d" for "dd".
func IsPrefix(buffer string, binding key.Binding) bool {
	if buffer == "" {
		return false
	}
	for _, k := range binding.Keys() {
		if len(buffer) < len(k) && strings.HasPrefix(k, buffer) {
			return true
		}
	}
	return false
}

// IsPrefixOfAny is IsPrefix over several bindings.
func IsPrefixOfAny(buffer string, bindings ...key.Binding) bool {
	for _, binding := range bindings {
		if IsPrefix(buffer, binding) {
			return true
		}
	}
	return false
}

// SequenceResult is the outcome of feeding one key to a SequenceState.
type SequenceResult int

const (
	// SequenceNone means the buffer matches nothing and cannot grow into a match.
	SequenceNone SequenceResult = iota
	// SequencePending means more keys may complete a binding.
	SequencePending
	// SequenceMatch means a binding matched.
	SequenceMatch
)

func (r SequenceResult) String() string {
	switch r {
	case SequencePending:
		return "pending"
	case SequenceMatch:
		return "match"
	default:
		return "none"
	}
}

// Process feeds msg to the buffer and matches it against bindings. On a
// match or on SequenceNone the caller should Clear the buffer.
//
//	result, idx := seq.Process(msg, m.keys.Sequences()...)
//	switch result {
//	case keymap.SequenceMatch:
//	    seq.Clear()
//	    // handle binding idx
//	case keymap.SequencePending:
//	    return m, nil
//	case keymap.SequenceNone:
//	    seq.Clear()
//	    // handle single key
//	}
func (s *SequenceState) Process(msg tea.KeyMsg, bindings ...key.Binding) (SequenceResult, int) {
	return s.ProcessKey(msg.String(), bindings...)
}

// ProcessKey is Process for a key string.
func (s *SequenceState) ProcessKey(keyStr string, bindings ...key.Binding) (SequenceResult, int) {
	buffer := s.UpdateKey(keyStr)
	if idx, ok := MatchesAny(buffer, bindings...); ok {
		return SequenceMatch, idx
	}
	if IsPrefixOfAny(buffer, bindings...) {
		return SequencePending, -1
	}
	return SequenceNone, -1
}
