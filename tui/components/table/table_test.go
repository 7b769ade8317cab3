package table

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSimpleTable(t *testing.T) {
	out := SimpleTable([]string{"NAME", "KEYS"}, [][]string{{"Work", "3"}, {"Home", "1"}})

	assert.Contains(t, out, "NAME")
	assert.Contains(t, out, "Work")
	assert.Contains(t, out, "Home")
	assert.Contains(t, out, "╭")
	assert.Less(t, strings.Index(out, "Work"), strings.Index(out, "Home"))
}

func TestStatusTable(t *testing.T) {
	out := StatusTable([][]string{{"data_dir", "/tmp/x"}, {"skipped"}})

	assert.Contains(t, out, "data_dir:")
	assert.Contains(t, out, "/tmp/x")
	assert.NotContains(t, out, "skipped")
	assert.NotContains(t, out, "╭")
}

func TestBuilderWithoutHeaders(t *testing.T) {
	out := NewBuilder().WithRows([]string{"a", "b"}).WithAlternateRows(true).Build().String()
	assert.Contains(t, out, "a")
	assert.Contains(t, out, "b")
}
