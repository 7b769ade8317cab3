package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/grovetools/presets/errors"
	"github.com/grovetools/presets/tui/theme"
)

// ErrorHandler provides user-friendly error messages
type ErrorHandler struct {
	Verbose bool
	Out     io.Writer
}

// NewErrorHandler creates a new error handler writing to stderr.
func NewErrorHandler(verbose bool) *ErrorHandler {
	return &ErrorHandler{
		Verbose: verbose,
		Out:     os.Stderr,
	}
}

// Handle prints err with a hint for the coded errors and returns it.
func (h *ErrorHandler) Handle(err error) error {
	if err == nil {
		return nil
	}
	t := theme.DefaultTheme
	fmt.Fprintf(h.Out, "%s %s\n", t.Error.Render("✗"), err.Error())
	if hint := Hint(err); hint != "" {
		fmt.Fprintf(h.Out, "%s\n", t.Muted.Render(hint))
	}

	if h.Verbose {
		if pe, ok := errors.As(err); ok {
			fmt.Fprintf(h.Out, "\nError details:\n%s\n", pe.ToJSON())
		}
	}
	return err
}

// Hint returns a suggestion for fixing err, or "".
func Hint(err error) string {
	pe, ok := errors.As(err)
	if !ok {
		return ""
	}
	switch pe.Code {
	case errors.ErrCodeNoTarget:
		return "Set one with 'presets target PATH'."
	case errors.ErrCodeNoSelection:
		return "Select a preset first."
	case errors.ErrCodeNotFound:
		return "Run 'presets list' to see the available presets."
	case errors.ErrCodeDuplicateKey:
		return fmt.Sprintf("Choose a name other than '%v'.", pe.Details["name"])
	case errors.ErrCodeEmptyKey:
		return "Preset names cannot be blank."
	case errors.ErrCodeInvalidShape:
		return "The document must be a JSON object."
	case errors.ErrCodeInvalidJSON:
		return "Fix the JSON and try again; nothing was changed."
	case errors.ErrCodeTargetWrite:
		return "Check that the target's directory exists and is writable."
	case errors.ErrCodeWriteFailed:
		return "The change is kept in memory only; check permissions on the data directory."
	case errors.ErrCodeConfigNotFound:
		return "Run 'presets paths' to see where presets.yml is looked up."
	case errors.ErrCodeConfigInvalid:
		return "Run 'presets config validate' for details."
	}
	return ""
}
