// Package commands defines the meditime command tree.
package commands

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/hammamikhairi/meditime/internal/app"
	"github.com/hammamikhairi/meditime/internal/config"
	"github.com/hammamikhairi/meditime/internal/logger"
	"github.com/hammamikhairi/meditime/internal/notify"
)

// New returns the root command.
func New() *cobra.Command {
	ro := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "meditime",
		Short: "Medicine reminders on the command line.",
		Long: `meditime keeps a list of medicines with daily dosing times and
reminds you when a dose is due.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	addRootArgs(cmd, ro)
	AddCommands(cmd, ro)
	return cmd
}

// AddCommands registers every subcommand on topLevel.
func AddCommands(topLevel *cobra.Command, ro *RootOptions) {
	addAdd(topLevel, ro)
	addEdit(topLevel, ro)
	addRemove(topLevel, ro)
	addList(topLevel, ro)
	addTaken(topLevel, ro)
	addHistory(topLevel, ro)
	addNext(topLevel, ro)
	addNotifications(topLevel, ro)
	addRun(topLevel, ro)
	addVersion(topLevel)
}

// RootOptions are the persistent flags shared by every command.
type RootOptions struct {
	ConfigFile string
	Verbose    bool
	Quiet      bool
	Ephemeral  bool
}

func addRootArgs(cmd *cobra.Command, o *RootOptions) {
	cmd.PersistentFlags().StringVar(&o.ConfigFile, "config", "",
		"Config file to use instead of searching for .meditime.yaml.")
	cmd.PersistentFlags().BoolVarP(&o.Verbose, "verbose", "v", false,
		"Enable debug logging.")
	cmd.PersistentFlags().BoolVarP(&o.Quiet, "quiet", "q", false,
		"Disable all logging.")
	cmd.PersistentFlags().BoolVar(&o.Ephemeral, "ephemeral", false,
		"Keep medicines in memory for this run only.")
}

// open loads the configuration and wires the application. Commands that
// never notify skip capability probing.
func (o *RootOptions) open(ctx context.Context, probe bool, extra ...app.Option) (*app.App, error) {
	var copts []config.Option
	if o.ConfigFile != "" {
		copts = append(copts, config.WithFile(o.ConfigFile))
	}
	cfg, err := config.Load(copts...)
	if err != nil {
		return nil, err
	}
	switch {
	case o.Quiet:
		cfg.LogLevel = logger.LevelOff
	case o.Verbose:
		cfg.LogLevel = logger.LevelVerbose
	}

	var opts []app.Option
	if o.Ephemeral {
		opts = append(opts, app.WithEphemeralStore())
	}
	if !probe {
		opts = append(opts, app.WithCapabilities(notify.Capabilities{}))
	}
	return app.New(ctx, cfg, append(opts, extra...)...)
}

// OutputOptions selects JSON output.
type OutputOptions struct {
	JSON bool
}

func addOutputArg(cmd *cobra.Command, o *OutputOptions) {
	cmd.Flags().BoolVar(&o.JSON, "json", false,
		"Output as JSON.")
}

// HandleError prints err as a JSON object when JSON output is on, so
// scripts get a parseable failure.
func (o *OutputOptions) HandleError(err error) error {
	if o.JSON && err != nil {
		b, merr := json.Marshal(map[string]string{"error": err.Error()})
		if merr != nil {
			return merr
		}
		_, _ = fmt.Fprintln(color.Output, string(b))
		return nil
	}
	return err
}
