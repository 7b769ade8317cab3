package cmd

import (
	"os"

	"github.com/grovetools/presets/cli"
	"github.com/grovetools/presets/logging"
	"github.com/grovetools/presets/persist"
	"github.com/grovetools/presets/tui"
	"github.com/grovetools/presets/tui/editor"
	"github.com/grovetools/presets/tui/theme"
	"github.com/grovetools/presets/version"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

// NewRootCmd assembles the presets command tree. Without a subcommand it
// opens the interactive editor.
func NewRootCmd() *cobra.Command {
	root := cli.NewStandardCommand(
		"presets",
		"Manage named JSON presets and publish one to a target config file",
	)
	root.Long = `Manage a named collection of JSON presets and publish one of them into an
external target configuration file.

Run without a subcommand to open the interactive editor.

Examples:
  presets
  presets list
  presets target ~/.config/app/config.json
  presets publish Work`
	root.Args = cobra.NoArgs
	root.RunE = runEditorE

	root.AddCommand(
		NewListCmd(),
		NewShowCmd(),
		NewAddCmd(),
		NewRenameCmd(),
		NewDeleteCmd(),
		NewEditCmd(),
		NewSetCmd(),
		NewImportCmd(),
		NewExportCmd(),
		NewAddFileCmd(),
		NewTargetCmd(),
		NewPublishCmd(),
		NewPathsCmd(),
		NewLogsCmd(),
		NewConfigCmd(),
		cli.NewVersionCommand("presets"),
	)

	cli.SetVersionTemplate(root, version.GetInfo())
	cli.ApplyStyledHelpRecursive(root)
	return root
}

func runEditorE(cmd *cobra.Command, _ []string) error {
	if !isatty.IsTerminal(os.Stdout.Fd()) {
		return cmd.Help()
	}
	cfg, err := cli.LoadConfig(cmd)
	if err != nil {
		return err
	}
	dir, err := cli.ResolveDataDir(cli.GetOptions(cmd), cfg)
	if err != nil {
		return err
	}

	tui.InitializeTUI(cfg.Theme)
	return editor.Run(cmd.Context(), editor.Options{
		Persistence: persist.NewGateway(dir),
		Config:      cfg,
		Theme:       theme.DefaultTheme,
		Logger:      logging.NewLogger("tui"),
	})
}
