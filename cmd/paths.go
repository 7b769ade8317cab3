package cmd

import (
	"fmt"

	"github.com/grovetools/presets/config"
	"github.com/grovetools/presets/pkg/paths"
	"github.com/grovetools/presets/tui/components/table"
	"github.com/spf13/cobra"
)

// PathsOutput lists the files and directories presets reads and writes.
type PathsOutput struct {
	ConfigDir    string `json:"config_dir"`
	ConfigFile   string `json:"config_file,omitempty"`
	DataDir      string `json:"data_dir"`
	PresetsFile  string `json:"presets_file"`
	SettingsFile string `json:"settings_file"`
	LogDir       string `json:"log_dir"`
	TargetPath   string `json:"target_path,omitempty"`
}

// NewPathsCmd creates the `paths` command.
func NewPathsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "paths",
		Short: "Print the paths used by presets",
		Long: `Print the paths used by presets. With --json the same fields are
printed as a JSON object.

- config_dir: where presets.yml or presets.toml is looked up
- config_file: the configuration file in effect, if any
- data_dir: holds the preset store and editor settings
- presets_file: the preset store
- settings_file: the editor settings (target path)
- log_dir: log files written by the editor
- target_path: the file presets are published to, if set`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newGatewayApp(cmd)
			if err != nil {
				return err
			}

			output := PathsOutput{
				ConfigDir:    paths.ConfigDir(),
				DataDir:      a.gateway.Dir(),
				PresetsFile:  a.gateway.PresetsPath(),
				SettingsFile: a.gateway.SettingsPath(),
				LogDir:       paths.LogDir(),
			}
			if a.opts.ConfigFile != "" {
				output.ConfigFile = a.opts.ConfigFile
			} else if found, err := config.FindConfigFile(paths.ConfigDir()); err == nil {
				output.ConfigFile = found
			}
			if settings, err := a.gateway.LoadSettings(); err == nil {
				if target, ok := settings.TargetPath(); ok {
					output.TargetPath = target
				}
			}

			if a.opts.JSONOutput {
				return a.printJSON(output)
			}
			fmt.Fprintln(a.out, table.StatusTable([][]string{
				{"config_dir", output.ConfigDir},
				{"config_file", valueOrNone(output.ConfigFile)},
				{"data_dir", output.DataDir},
				{"presets_file", output.PresetsFile},
				{"settings_file", output.SettingsFile},
				{"log_dir", output.LogDir},
				{"target_path", valueOrNone(output.TargetPath)},
			}))
			return nil
		},
	}

	return cmd
}

func valueOrNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}
