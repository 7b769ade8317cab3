package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/grovetools/presets/errors"
	"github.com/grovetools/presets/jsondoc"
	"github.com/grovetools/presets/pkg/fsys"
	"github.com/grovetools/presets/tui/components/table"
	"github.com/grovetools/presets/util/pathutil"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

// PresetSummary is one row of `presets list --json`.
type PresetSummary struct {
	Name string `json:"name"`
	Kind string `json:"kind"`
	Keys int    `json:"keys"`
	Size int    `json:"size"`
}

// NewListCmd creates the `list` command.
func NewListCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List presets in store order",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}

			summaries := make([]PresetSummary, 0, a.session.Len())
			for _, name := range a.session.Names() {
				value, _ := a.session.Get(name)
				s := PresetSummary{Name: name, Kind: value.Kind().String(), Size: len(value.Compact())}
				if value.IsObject() {
					s.Keys = value.Object().Len()
				}
				summaries = append(summaries, s)
			}

			if a.opts.JSONOutput {
				return a.printJSON(summaries)
			}

			if len(summaries) == 0 {
				a.pretty.InfoPretty("No presets yet. Add one with 'presets add NAME'.")
				return nil
			}
			rows := make([][]string, 0, len(summaries))
			for _, s := range summaries {
				keys := fmt.Sprintf("%d", s.Keys)
				if s.Kind != "object" {
					keys = s.Kind
				}
				rows = append(rows, []string{s.Name, keys, humanize.Bytes(uint64(s.Size))})
			}
			fmt.Fprintln(a.out, table.SimpleTable([]string{"NAME", "KEYS", "SIZE"}, rows))
			if info, err := os.Stat(a.gateway.PresetsPath()); err == nil {
				a.pretty.InfoPretty(fmt.Sprintf("%d presets, saved %s", len(summaries), humanize.Time(info.ModTime())))
			}
			return nil
		},
	}
}

// NewShowCmd creates the `show` command.
func NewShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show NAME [PATH]",
		Short: "Print a preset, or the value at a path inside it",
		Long: `Print a preset as pretty JSON. An optional PATH selects a value inside
the preset using dotted path syntax.

Examples:
  presets show Work
  presets show Work mcpServers.github.command
  presets show Work servers.0 --compact`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			value, ok := a.session.Get(args[0])
			if !ok {
				return errors.NotFound(args[0])
			}
			if len(args) == 2 {
				value, ok = value.Query(args[1])
				if !ok {
					return errors.New(errors.ErrCodeNotFound, fmt.Sprintf("path '%s' not found in preset '%s'", args[1], args[0])).
						WithDetail("name", args[0]).
						WithDetail("path", args[1])
				}
			}
			compact, _ := cmd.Flags().GetBool("compact")
			if compact {
				fmt.Fprintln(a.out, value.String())
				return nil
			}
			fmt.Fprint(a.out, string(value.Pretty()))
			return nil
		},
	}
	cmd.Flags().Bool("compact", false, "Print compact JSON on one line")
	return cmd
}

// NewAddCmd creates the `add` command.
func NewAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add [NAME]",
		Short: "Add an empty preset",
		Long: `Add an empty preset. If NAME is taken, _1, _2, ... is appended until the
name is free. Without NAME the configured default name is used.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			hint := ""
			if len(args) == 1 {
				hint = args[0]
			}
			name := a.session.AddPreset(hint)
			if a.opts.JSONOutput {
				return a.printJSON(map[string]string{"name": name})
			}
			a.pretty.Success(fmt.Sprintf("Added preset '%s'", name))
			return nil
		},
	}
}

// NewRenameCmd creates the `rename` command.
func NewRenameCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "rename OLD NEW",
		Aliases: []string{"mv"},
		Short:   "Rename a preset, keeping its position",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			stored, err := a.session.Rename(args[0], args[1])
			if err != nil {
				return err
			}
			a.pretty.Success(fmt.Sprintf("Renamed '%s' to '%s'", args[0], stored))
			return nil
		},
	}
}

// NewDeleteCmd creates the `delete` command.
func NewDeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "delete NAME",
		Aliases: []string{"rm"},
		Short:   "Delete a preset",
		Long: `Delete a preset. When run in a terminal with editor.confirm_delete
enabled (the default) you are asked first; --yes skips the question.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			name := args[0]
			if _, ok := a.session.Get(name); !ok {
				a.pretty.WarnPretty(fmt.Sprintf("No preset named '%s'; nothing deleted", name))
				return nil
			}

			yes, _ := cmd.Flags().GetBool("yes")
			if !yes && a.cfg.ConfirmDeleteEnabled() && isatty.IsTerminal(os.Stdin.Fd()) {
				fmt.Fprintf(cmd.ErrOrStderr(), "Delete preset '%s'? [y/N] ", name)
				answer, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if !strings.EqualFold(strings.TrimSpace(answer), "y") {
					a.pretty.InfoPretty("Cancelled")
					return nil
				}
			}

			a.session.Delete(name)
			a.pretty.Success(fmt.Sprintf("Deleted '%s'", name))
			return nil
		},
	}
	cmd.Flags().BoolP("yes", "y", false, "Do not ask for confirmation")
	return cmd
}

// NewSetCmd creates the `set` command.
func NewSetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set NAME PATH [VALUE]",
		Short: "Set or delete the value at a path inside a preset",
		Long: `Set the value at PATH inside preset NAME. VALUE is parsed as JSON;
use --string to store it as a plain string. Missing objects along the path
are created. With --delete the value at PATH is removed instead.

Examples:
  presets set Work mcpServers.github.command '"npx"'
  presets set Work theme dark --string
  presets set Work servers.0.port 8080
  presets set Work legacy --delete`,
		Args: cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			name, path := args[0], args[1]
			current, ok := a.session.Get(name)
			if !ok {
				return errors.NotFound(name)
			}

			del, _ := cmd.Flags().GetBool("delete")
			asString, _ := cmd.Flags().GetBool("string")

			var updated jsondoc.Value
			switch {
			case del:
				updated, err = current.DeletePath(path)
			case len(args) < 3:
				return fmt.Errorf("a VALUE is required unless --delete is given")
			default:
				var x jsondoc.Value
				if asString {
					x = jsondoc.String(args[2])
				} else if x, err = jsondoc.Parse(args[2]); err != nil {
					return errors.InvalidJSON(err).WithDetail("value", args[2])
				}
				updated, err = current.SetPath(path, x)
			}
			if err != nil {
				return errors.Wrap(err, errors.ErrCodeInvalidShape, fmt.Sprintf("cannot update path '%s'", path))
			}
			if err := a.session.SetValue(name, updated); err != nil {
				return err
			}
			a.pretty.Success(fmt.Sprintf("Updated '%s' at %s", name, path))
			return nil
		},
	}
	cmd.Flags().Bool("string", false, "Store VALUE as a JSON string")
	cmd.Flags().Bool("delete", false, "Delete the value at PATH")
	return cmd
}

// NewImportCmd creates the `import` command.
func NewImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Replace all presets with the object in FILE",
		Long: `Replace the whole preset store with the JSON object in FILE. Each
top-level key becomes a preset, in file order.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			path, err := pathutil.Expand(args[0])
			if err != nil {
				return err
			}
			if err := a.session.ImportFile(path); err != nil {
				return err
			}
			a.pretty.Success(fmt.Sprintf("Imported %d presets from %s", a.session.Len(), path))
			return nil
		},
	}
}

// NewExportCmd creates the `export` command.
func NewExportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export FILE",
		Short: "Write all presets to FILE as one JSON object",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			path, err := pathutil.Expand(args[0])
			if err != nil {
				return err
			}
			if err := a.session.ExportAll(path); err != nil {
				return err
			}
			a.pretty.Success(fmt.Sprintf("Exported %d presets", a.session.Len()))
			a.pretty.Path("file", path)
			return nil
		},
	}
}

// NewAddFileCmd creates the `add-file` command.
func NewAddFileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add-file FILE|DIR...",
		Short: "Add one preset per JSON file",
		Long: `Add one preset per file, named after the file without its extension.
Directories are expanded to the files matching import.patterns (or
--pattern). Files that are not JSON objects are reported and skipped.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			patterns, _ := cmd.Flags().GetStringSlice("pattern")
			if len(patterns) == 0 {
				patterns = a.cfg.Import.Patterns
			}
			filter, err := fsys.NewFilter(patterns)
			if err != nil {
				return errors.Wrap(err, errors.ErrCodeConfigInvalid, "invalid --pattern")
			}

			expanded := make([]string, 0, len(args))
			for _, arg := range args {
				p, err := pathutil.Expand(arg)
				if err != nil {
					return err
				}
				expanded = append(expanded, p)
			}
			files, err := fsys.Expand(expanded, filter)
			if err != nil {
				return err
			}

			added, failed := a.session.AddFromFiles(files...)
			for _, name := range added {
				a.pretty.Success(fmt.Sprintf("Added '%s'", name))
			}
			for _, f := range failed {
				a.pretty.ErrorPretty(fmt.Sprintf("Skipped %s", f.Path), f.Err)
			}
			if len(added) == 0 && len(failed) > 0 {
				return fmt.Errorf("no presets added")
			}
			return nil
		},
	}
	cmd.Flags().StringSlice("pattern", nil, "File name patterns used when expanding directories")
	return cmd
}

// NewTargetCmd creates the `target` command.
func NewTargetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "target [PATH]",
		Short: "Show or set the file presets are published to",
		Long: `Without arguments, print the current target file. With PATH, set it.
The path is not checked until the next publish.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			clearTarget, _ := cmd.Flags().GetBool("clear")
			switch {
			case clearTarget:
				a.session.SetTargetPath("")
				a.pretty.Success("Target cleared")
			case len(args) == 1:
				path, err := pathutil.Expand(args[0])
				if err != nil {
					return err
				}
				a.session.SetTargetPath(path)
				a.pretty.Success("Target set")
				a.pretty.Path("target", path)
			default:
				path, ok := a.session.TargetPath()
				if a.opts.JSONOutput {
					var v interface{}
					if ok {
						v = path
					}
					return a.printJSON(map[string]interface{}{"targetPath": v})
				}
				if !ok {
					a.pretty.InfoPretty("No target set")
					return nil
				}
				fmt.Fprintln(a.out, path)
			}
			return nil
		},
	}
	cmd.Flags().Bool("clear", false, "Unset the target file")
	return cmd
}

// NewPublishCmd creates the `publish` command.
func NewPublishCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "publish NAME",
		Short: "Overwrite the target file with a preset",
		Long: `Write preset NAME as pretty JSON to the target file, replacing its
whole content. The target's directory must already exist.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			if err := a.session.Publish(args[0]); err != nil {
				return err
			}
			target, _ := a.session.TargetPath()
			a.pretty.Success(fmt.Sprintf("Published '%s'", args[0]))
			a.pretty.Path("target", target)
			return nil
		},
	}
}
