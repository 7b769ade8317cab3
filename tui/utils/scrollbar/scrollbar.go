// Package scrollbar draws a one-column scroll indicator next to a list or a
// viewport.
package scrollbar

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/grovetools/presets/tui/theme"
)

const (
	thumb = "█"
	track = "░"
)

// Track returns height cells for a list of total rows of which visible are
// shown starting at offset. A list that fits gets a blank column.
func Track(total, visible, offset, height int) []string {
	if height <= 0 {
		return []string{}
	}
	cells := make([]string, height)
	if total <= visible || visible <= 0 {
		for i := range cells {
			cells[i] = " "
		}
		return cells
	}

	thumbSize := max(1, height*visible/total)
	maxStart := height - thumbSize
	maxOffset := total - visible
	offset = min(max(offset, 0), maxOffset)
	start := (maxStart*offset + maxOffset/2) / maxOffset

	style := theme.DefaultTheme.Muted
	for i := range cells {
		if i >= start && i < start+thumbSize {
			cells[i] = style.Render(thumb)
		} else {
			cells[i] = style.Render(track)
		}
	}
	return cells
}

// Generate is Track for a viewport.
func Generate(vp *viewport.Model, height int) []string {
	return Track(vp.TotalLineCount(), vp.Height, vp.YOffset, height)
}

// Overlay appends the scrollbar to each line of the viewport's view.
func Overlay(vp *viewport.Model) string {
	lines := strings.Split(vp.View(), "\n")
	bar := Generate(vp, len(lines))
	for i := range lines {
		lines[i] += bar[i]
	}
	return strings.Join(lines, "\n")
}
