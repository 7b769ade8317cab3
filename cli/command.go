package cli

import (
	"github.com/grovetools/presets/config"
	"github.com/grovetools/presets/logging"
	"github.com/grovetools/presets/pkg/paths"
	"github.com/grovetools/presets/util/pathutil"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// CommandOptions holds the standard persistent flags.
type CommandOptions struct {
	ConfigFile string
	DataDir    string
	Verbose    bool
	JSONOutput bool
}

// NewStandardCommand creates a new command with the standard flags.
func NewStandardCommand(use, short string) *cobra.Command {
	cmd := &cobra.Command{
		Use:           use,
		Short:         short,
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().Bool("json", false, "Output in JSON format")
	cmd.PersistentFlags().StringP("config", "c", "", "Path to presets.yml or presets.toml")
	cmd.PersistentFlags().String("data-dir", "", "Directory holding app_config.json and editor_settings.json")

	SetStyledHelp(cmd)

	return cmd
}

// GetLogger returns the cli component logger adjusted for the command flags.
func GetLogger(cmd *cobra.Command) *logrus.Logger {
	logger := logging.NewLogger("cli").Logger

	verbose, _ := cmd.Flags().GetBool("verbose")
	if verbose {
		logger.SetLevel(logrus.DebugLevel)
	}

	return logger
}

// GetOptions extracts common options from a command
func GetOptions(cmd *cobra.Command) CommandOptions {
	configFile, _ := cmd.Flags().GetString("config")
	dataDir, _ := cmd.Flags().GetString("data-dir")
	verbose, _ := cmd.Flags().GetBool("verbose")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	return CommandOptions{
		ConfigFile: configFile,
		DataDir:    dataDir,
		Verbose:    verbose,
		JSONOutput: jsonOutput,
	}
}

// LoadConfig loads the file named by --config, or the default one. A
// missing file yields the defaults.
func LoadConfig(cmd *cobra.Command) (*config.Config, error) {
	opts := GetOptions(cmd)
	path := opts.ConfigFile
	if path != "" {
		expanded, err := pathutil.Expand(path)
		if err != nil {
			return nil, err
		}
		path = expanded
	}
	return config.LoadOrDefault(path, GetLogger(cmd))
}

// ResolveDataDir picks the application directory: --data-dir, then the
// config's data_dir, then the XDG data directory.
func ResolveDataDir(opts CommandOptions, cfg *config.Config) (string, error) {
	dir := opts.DataDir
	if dir == "" && cfg != nil {
		dir = cfg.DataDir
	}
	if dir == "" {
		return paths.DataDir(), nil
	}
	return pathutil.Expand(dir)
}
