// Package theme holds the color palettes and lipgloss styles shared by the
// CLI output, the log formatter and the interactive editor.
package theme

import (
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/grovetools/presets/config"
)

const defaultThemeName = "kanagawa"

// ThemeEnv selects a theme and takes precedence over presets.yml.
const ThemeEnv = "PRESETS_THEME"

// Colors encapsulates the palette used by a theme. lipgloss.TerminalColor
// allows a mix of adaptive and static colors.
type Colors struct {
	Green              lipgloss.TerminalColor
	Yellow             lipgloss.TerminalColor
	Red                lipgloss.TerminalColor
	Orange             lipgloss.TerminalColor
	Cyan               lipgloss.TerminalColor
	Blue               lipgloss.TerminalColor
	Violet             lipgloss.TerminalColor
	LightText          lipgloss.TerminalColor
	MutedText          lipgloss.TerminalColor
	Border             lipgloss.TerminalColor
	SelectedBackground lipgloss.TerminalColor
	SubtleBackground   lipgloss.TerminalColor
}

// shade is one palette entry as light and dark hex values.
type shade struct{ light, dark string }

func (s shade) adaptive() lipgloss.TerminalColor {
	return lipgloss.AdaptiveColor{Light: s.light, Dark: s.dark}
}

// palette lists shades in Colors field order.
type palette struct {
	green, yellow, red, orange, cyan, blue, violet shade
	lightText, mutedText, border, selected, subtle shade
}

func (p palette) colors() Colors {
	return Colors{
		Green:              p.green.adaptive(),
		Yellow:             p.yellow.adaptive(),
		Red:                p.red.adaptive(),
		Orange:             p.orange.adaptive(),
		Cyan:               p.cyan.adaptive(),
		Blue:               p.blue.adaptive(),
		Violet:             p.violet.adaptive(),
		LightText:          p.lightText.adaptive(),
		MutedText:          p.mutedText.adaptive(),
		Border:             p.border.adaptive(),
		SelectedBackground: p.selected.adaptive(),
		SubtleBackground:   p.subtle.adaptive(),
	}
}

// Kanagawa: Wave for light backgrounds, Dragon for dark.
var kanagawa = palette{
	green:     shade{"#4E7C5A", "#98BB6C"},
	yellow:    shade{"#A68A64", "#FF9E3B"},
	red:       shade{"#C34043", "#FF5D62"},
	orange:    shade{"#CC6B4E", "#FFA066"},
	cyan:      shade{"#5B8BBE", "#7E9CD8"},
	blue:      shade{"#4F7CAC", "#7FB4CA"},
	violet:    shade{"#674D7A", "#957FB8"},
	lightText: shade{"#2B2F42", "#DCD7BA"},
	mutedText: shade{"#6C7086", "#727169"},
	border:    shade{"#B5BDC5", "#363646"},
	selected:  shade{"#E2E6F3", "#223249"},
	subtle:    shade{"#F7F7FB", "#1F1F28"},
}

var gruvbox = palette{
	green:     shade{"#98971A", "#B8BB26"},
	yellow:    shade{"#D79921", "#FABD2F"},
	red:       shade{"#CC241D", "#FB4934"},
	orange:    shade{"#D65D0E", "#FE8019"},
	cyan:      shade{"#458588", "#83A598"},
	blue:      shade{"#076678", "#458588"},
	violet:    shade{"#8F3F71", "#B16286"},
	lightText: shade{"#3C3836", "#EBDBB2"},
	mutedText: shade{"#928374", "#BDAE93"},
	border:    shade{"#D5C4A1", "#504945"},
	selected:  shade{"#F2E5BC", "#32302F"},
	subtle:    shade{"#FBF1C7", "#282828"},
}

// newTerminalColors uses plain ANSI indexes so the user's terminal scheme
// decides the actual colors.
func newTerminalColors() Colors {
	return Colors{
		Green:              lipgloss.Color("2"),
		Yellow:             lipgloss.Color("3"),
		Red:                lipgloss.Color("1"),
		Orange:             lipgloss.Color("208"),
		Cyan:               lipgloss.Color("6"),
		Blue:               lipgloss.Color("4"),
		Violet:             lipgloss.Color("5"),
		LightText:          lipgloss.Color("7"),
		MutedText:          lipgloss.Color("8"),
		Border:             lipgloss.Color("8"),
		SelectedBackground: lipgloss.Color("8"),
		SubtleBackground:   lipgloss.Color("0"),
	}
}

var themeRegistry = map[string]func() Colors{
	"kanagawa": kanagawa.colors,
	"gruvbox":  gruvbox.colors,
	"terminal": newTerminalColors,
}

var themeAliases = map[string]string{
	"kanagawa-dark":   "kanagawa",
	"kanagawa-dragon": "kanagawa",
	"kanagawa-wave":   "kanagawa",
	"gruvbox-dark":    "gruvbox",
	"gruvbox-light":   "gruvbox",
}

// Theme holds the pre-configured styles.
type Theme struct {
	Name   string
	Colors Colors

	Header lipgloss.Style
	Title  lipgloss.Style

	// Status indicators
	Success lipgloss.Style
	Error   lipgloss.Style
	Warning lipgloss.Style
	Info    lipgloss.Style

	Bold              lipgloss.Style
	Normal            lipgloss.Style
	Muted             lipgloss.Style
	Selected          lipgloss.Style
	SelectedUnfocused lipgloss.Style

	// Panes of the editor; the focused one gets the accent border.
	Pane        lipgloss.Style
	PaneFocused lipgloss.Style
	StatusBar   lipgloss.Style

	Box         lipgloss.Style
	Code        lipgloss.Style
	Input       lipgloss.Style
	Placeholder lipgloss.Style
	Cursor      lipgloss.Style
	Highlight   lipgloss.Style
	Accent      lipgloss.Style
}

// DefaultTheme is the theme used when no other is passed around.
var DefaultTheme = NewTheme()

// NewTheme creates a theme based on the configured theme selection.
func NewTheme() *Theme {
	return NewThemeWithName(getThemeName())
}

// NewThemeWithName constructs a theme from a specific palette name.
// Unknown names fall back to kanagawa.
func NewThemeWithName(name string) *Theme {
	key := resolveName(name)
	return newThemeFromColors(themeRegistry[key](), key)
}

// SetDefault replaces DefaultTheme, e.g. after the config file named a theme.
func SetDefault(name string) {
	DefaultTheme = NewThemeWithName(name)
}

// Names returns the registered theme names.
func Names() []string {
	return []string{"kanagawa", "gruvbox", "terminal"}
}

// RenderHeader renders a header with the default styling.
func RenderHeader(title string) string {
	return DefaultTheme.Header.Render(title)
}

// RenderStatus renders text with the appropriate status style.
func RenderStatus(status, text string) string {
	switch status {
	case "success":
		return DefaultTheme.Success.Render(text)
	case "error":
		return DefaultTheme.Error.Render(text)
	case "warning":
		return DefaultTheme.Warning.Render(text)
	case "info":
		return DefaultTheme.Info.Render(text)
	default:
		return text
	}
}

func newThemeFromColors(colors Colors, name string) *Theme {
	pane := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colors.Border).
		Padding(0, 1)

	return &Theme{
		Name:   name,
		Colors: colors,

		Header: lipgloss.NewStyle().Bold(true).MarginBottom(1),
		Title:  lipgloss.NewStyle().Bold(true).Foreground(colors.Violet),

		Success: lipgloss.NewStyle().Foreground(colors.Green).Bold(true),
		Error:   lipgloss.NewStyle().Foreground(colors.Red).Bold(true),
		Warning: lipgloss.NewStyle().Foreground(colors.Yellow).Bold(true),
		Info:    lipgloss.NewStyle().Foreground(colors.Cyan).Bold(true),

		Bold:   lipgloss.NewStyle().Bold(true),
		Normal: lipgloss.NewStyle(),
		Muted:  lipgloss.NewStyle().Faint(true),
		Selected: lipgloss.NewStyle().
			Background(colors.SelectedBackground).
			Foreground(colors.LightText),
		SelectedUnfocused: lipgloss.NewStyle().Faint(true).Underline(true),

		Pane:        pane,
		PaneFocused: pane.BorderForeground(colors.Violet),
		StatusBar:   lipgloss.NewStyle().Foreground(colors.MutedText).Padding(0, 1),

		Box: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colors.Border).
			Padding(1, 2),
		Code: lipgloss.NewStyle().
			Background(colors.SubtleBackground).
			Foreground(colors.LightText).
			Padding(0, 1),
		Input:       lipgloss.NewStyle().Foreground(colors.LightText),
		Placeholder: lipgloss.NewStyle().Foreground(colors.MutedText).Italic(true),
		Cursor:      lipgloss.NewStyle().Foreground(colors.Orange).Bold(true),
		Highlight:   lipgloss.NewStyle().Foreground(colors.Orange).Bold(true),
		Accent:      lipgloss.NewStyle().Foreground(colors.Violet).Bold(true),
	}
}

func resolveName(name string) string {
	key := normalizeThemeName(name)
	if alias, ok := themeAliases[key]; ok {
		key = alias
	}
	if _, ok := themeRegistry[key]; ok {
		return key
	}
	return defaultThemeName
}

func normalizeThemeName(name string) string {
	normalized := strings.ToLower(strings.TrimSpace(name))
	normalized = strings.ReplaceAll(normalized, " ", "-")
	normalized = strings.ReplaceAll(normalized, "_", "-")
	return normalized
}

// getThemeName reads PRESETS_THEME, then the theme key of presets.yml.
func getThemeName() string {
	if name := normalizeThemeName(os.Getenv(ThemeEnv)); name != "" {
		return name
	}
	cfg, err := config.LoadDefault()
	if err != nil || cfg == nil {
		return defaultThemeName
	}
	if name := normalizeThemeName(cfg.Theme); name != "" {
		return name
	}
	return defaultThemeName
}
