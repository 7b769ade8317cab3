// Package table renders themed lipgloss tables for command output.
package table

import (
	"github.com/charmbracelet/lipgloss"
	ltable "github.com/charmbracelet/lipgloss/table"
	"github.com/grovetools/presets/tui/theme"
)

// Options provides additional configuration for the table
type Options struct {
	Bordered      bool
	AlternateRows bool
	Theme         *theme.Theme
}

// DefaultOptions returns the default table options
func DefaultOptions() Options {
	return Options{
		Bordered:      true,
		AlternateRows: false,
		Theme:         theme.DefaultTheme,
	}
}

// Builder provides a fluent interface for creating styled tables
type Builder struct {
	headers []string
	rows    [][]string
	width   int
	options Options
}

// NewBuilder creates a new table builder
func NewBuilder() *Builder {
	return &Builder{options: DefaultOptions()}
}

// WithTheme sets the theme used for headers and borders.
func (b *Builder) WithTheme(t *theme.Theme) *Builder {
	b.options.Theme = t
	return b
}

// WithBorder toggles the rounded border.
func (b *Builder) WithBorder(bordered bool) *Builder {
	b.options.Bordered = bordered
	return b
}

// WithAlternateRows toggles a background on every other row.
func (b *Builder) WithAlternateRows(alternate bool) *Builder {
	b.options.AlternateRows = alternate
	return b
}

// WithHeaders sets the header row.
func (b *Builder) WithHeaders(headers ...string) *Builder {
	b.headers = headers
	return b
}

// WithRows appends data rows.
func (b *Builder) WithRows(rows ...[]string) *Builder {
	b.rows = append(b.rows, rows...)
	return b
}

// WithWidth fixes the table width.
func (b *Builder) WithWidth(width int) *Builder {
	b.width = width
	return b
}

// Build creates the lipgloss table.
func (b *Builder) Build() *ltable.Table {
	t := b.options.Theme
	if t == nil {
		t = theme.DefaultTheme
	}

	tbl := ltable.New()
	if b.options.Bordered {
		tbl = tbl.Border(lipgloss.RoundedBorder()).
			BorderStyle(lipgloss.NewStyle().Foreground(t.Colors.Border))
	} else {
		tbl = tbl.Border(lipgloss.HiddenBorder()).
			BorderTop(false).BorderBottom(false).
			BorderLeft(false).BorderRight(false).
			BorderColumn(false).BorderHeader(false)
	}

	header := t.Bold.Padding(0, 1)
	alternate := b.options.AlternateRows
	tbl = tbl.StyleFunc(func(row, col int) lipgloss.Style {
		if row == ltable.HeaderRow {
			return header
		}
		style := lipgloss.NewStyle().Padding(0, 1)
		if alternate && row%2 == 1 {
			style = style.Background(t.Colors.SubtleBackground)
		}
		return style
	})

	if len(b.headers) > 0 {
		tbl = tbl.Headers(b.headers...)
	}
	for _, r := range b.rows {
		tbl = tbl.Row(r...)
	}
	if b.width > 0 {
		tbl = tbl.Width(b.width)
	}
	return tbl
}

// SimpleTable creates a basic bordered table with headers and rows
func SimpleTable(headers []string, rows [][]string) string {
	return NewBuilder().
		WithHeaders(headers...).
		WithRows(rows...).
		Build().
		String()
}

// StatusTable renders label/value pairs without a border. Items with fewer
// than two cells are skipped.
func StatusTable(items [][]string) string {
	t := theme.DefaultTheme
	var rows [][]string
	for _, item := range items {
		if len(item) < 2 {
			continue
		}
		rows = append(rows, []string{t.Muted.Render(item[0] + ":"), item[1]})
	}
	return NewBuilder().
		WithBorder(false).
		WithRows(rows...).
		Build().
		String()
}
