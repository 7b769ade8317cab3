// Package tui prepares the terminal for the interactive editor.
package tui

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/grovetools/presets/tui/theme"
	"github.com/muesli/termenv"
)

// InitializeTUI sets the lipgloss color profile from the environment and
// activates themeName (when not empty). CLICOLOR_FORCE=1 or
// COLORTERM=truecolor force full color; NO_COLOR turns color off.
func InitializeTUI(themeName string) {
	switch {
	case os.Getenv("NO_COLOR") != "":
		lipgloss.SetColorProfile(termenv.Ascii)
	case os.Getenv("CLICOLOR_FORCE") == "1" || os.Getenv("COLORTERM") == "truecolor":
		lipgloss.SetColorProfile(termenv.TrueColor)
	}
	if themeName != "" && os.Getenv(theme.ThemeEnv) == "" {
		theme.SetDefault(themeName)
	}
}
