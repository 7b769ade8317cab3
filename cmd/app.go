// Package cmd holds the presets subcommands.
package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/grovetools/presets/cli"
	"github.com/grovetools/presets/config"
	"github.com/grovetools/presets/logging"
	"github.com/grovetools/presets/persist"
	"github.com/grovetools/presets/session"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// app bundles what a subcommand needs: the effective configuration, the
// gateway for the resolved data directory and an open session.
type app struct {
	opts    cli.CommandOptions
	cfg     *config.Config
	gateway *persist.Gateway
	session *session.Session
	logger  *logrus.Logger
	pretty  *logging.PrettyLogger
	out     io.Writer
}

// newApp loads the configuration and opens a session. Load warnings are
// printed to stderr and do not fail the command.
func newApp(cmd *cobra.Command) (*app, error) {
	a, err := newGatewayApp(cmd)
	if err != nil {
		return nil, err
	}
	a.session = session.New(a.gateway,
		session.WithNewPresetName(a.cfg.Editor.NewPresetName),
		session.WithNotifier(session.NotifierFunc(func(err error) {
			a.pretty.WarnPretty(err.Error())
		})))
	return a, nil
}

// newGatewayApp is newApp without opening a session.
func newGatewayApp(cmd *cobra.Command) (*app, error) {
	cfg, err := cli.LoadConfig(cmd)
	if err != nil {
		return nil, err
	}
	opts := cli.GetOptions(cmd)
	dir, err := cli.ResolveDataDir(opts, cfg)
	if err != nil {
		return nil, err
	}
	logger := cli.GetLogger(cmd)
	logger.WithField("dir", dir).Debug("Using data directory")

	return &app{
		opts:    opts,
		cfg:     cfg,
		gateway: persist.NewGateway(dir),
		logger:  logger,
		pretty:  logging.NewPrettyLogger().WithWriter(cmd.ErrOrStderr()),
		out:     cmd.OutOrStdout(),
	}, nil
}

// printJSON writes v as indented JSON to stdout.
func (a *app) printJSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	fmt.Fprintln(a.out, string(data))
	return nil
}
