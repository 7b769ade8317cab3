package cmd

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/grovetools/presets/errors"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

// NewEditCmd creates the `edit` command.
func NewEditCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit NAME",
		Short: "Replace a preset's content",
		Long: `Replace the content of preset NAME. The new text is read from --file,
from stdin when it is not a terminal, or else from $EDITOR opened on a
temporary copy of the preset. The text must be a JSON object; invalid
text leaves the preset unchanged.

Examples:
  presets edit Work
  presets edit Work --file work.json
  cat work.json | presets edit Work`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			name := args[0]
			if err := a.session.SelectPreset(name); err != nil {
				return err
			}

			file, _ := cmd.Flags().GetString("file")
			var text string
			switch {
			case file != "" && file != "-":
				data, err := os.ReadFile(file)
				if err != nil {
					return errors.ReadFailed(file, err)
				}
				text = string(data)
			case file == "-" || !isatty.IsTerminal(os.Stdin.Fd()):
				data, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return errors.ReadFailed("stdin", err)
				}
				text = string(data)
			default:
				text, err = editInEditor(name, a.session.Draft())
				if err != nil {
					return err
				}
			}

			if strings.TrimSpace(text) == strings.TrimSpace(a.session.Draft()) {
				a.pretty.InfoPretty(fmt.Sprintf("No changes to '%s'", name))
				return nil
			}
			if err := a.session.EditDraft(text); err != nil {
				return err
			}
			if err := a.session.CommitDraft(); err != nil {
				return err
			}
			a.pretty.Success(fmt.Sprintf("Saved '%s'", name))
			return nil
		},
	}
	cmd.Flags().StringP("file", "f", "", "Read the new content from this file (- for stdin)")
	return cmd
}

// editorCommand returns the user's editor split into program and arguments.
func editorCommand() []string {
	for _, env := range []string{"VISUAL", "EDITOR"} {
		if fields := strings.Fields(os.Getenv(env)); len(fields) > 0 {
			return fields
		}
	}
	return []string{"vi"}
}

// editInEditor opens content in the user's editor and returns the saved text.
func editInEditor(name, content string) (string, error) {
	f, err := os.CreateTemp("", "preset-*.json")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	path := f.Name()
	defer os.Remove(path)

	if _, err := f.WriteString(content); err != nil {
		f.Close()
		return "", errors.WriteFailed(path, err)
	}
	if err := f.Close(); err != nil {
		return "", errors.WriteFailed(path, err)
	}

	argv := append(editorCommand(), path)
	editorCmd := exec.Command(argv[0], argv[1:]...)
	editorCmd.Stdin = os.Stdin
	editorCmd.Stdout = os.Stdout
	editorCmd.Stderr = os.Stderr
	if err := editorCmd.Run(); err != nil {
		return "", fmt.Errorf("editor exited with error while editing '%s': %w", name, err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", errors.ReadFailed(path, err)
	}
	return string(data), nil
}
