package cmd

import (
	"fmt"

	"github.com/grovetools/presets/cli"
	"github.com/grovetools/presets/config"
	"github.com/grovetools/presets/logging"
	"github.com/grovetools/presets/pkg/paths"
	"github.com/grovetools/presets/util/pathutil"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect the presets configuration",
		Long: `Inspect the presets configuration file (presets.yml, presets.yaml or
presets.toml in the configuration directory, or the file given with --config).`,
	}

	cmd.AddCommand(newConfigShowCmd())
	cmd.AddCommand(newConfigSchemaCmd())
	cmd.AddCommand(newConfigValidateCmd())

	return cmd
}

func newConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration, defaults included",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newGatewayApp(cmd)
			if err != nil {
				return err
			}
			if a.opts.JSONOutput {
				return a.printJSON(a.cfg)
			}
			data, err := yaml.Marshal(a.cfg)
			if err != nil {
				return fmt.Errorf("failed to marshal config: %w", err)
			}
			fmt.Fprint(a.out, string(data))
			return nil
		},
	}
}

func newConfigSchemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON schema of the configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := config.GenerateSchema()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		},
	}
}

func newConfigValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [FILE]",
		Short: "Check a configuration file against the schema",
		Long: `Check a configuration file. Without FILE the file given with --config,
or the one found in the configuration directory, is checked.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			path := cli.GetOptions(cmd).ConfigFile
			if len(args) == 1 {
				path = args[0]
			}
			if path == "" {
				if path, err = config.FindConfigFile(paths.ConfigDir()); err != nil {
					return err
				}
			}
			if path, err = pathutil.Expand(path); err != nil {
				return err
			}

			if _, err := config.Load(path); err != nil {
				return err
			}
			pretty := logging.NewPrettyLogger().WithWriter(cmd.ErrOrStderr())
			pretty.Success("Configuration is valid")
			pretty.Path("file", path)
			return nil
		},
	}
}
