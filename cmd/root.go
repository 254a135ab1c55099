// Package cmd holds the localboard command line.
package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"LocalBoard/internal/config"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	ConfigPath string
	LogLevel   string

	// Set by PersistentPreRunE.
	Config *config.Config
	Logger *slog.Logger
}

// NewRootCommand creates the localboard command. Without a subcommand it hosts
// a session; given a localboard:// link it joins one.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:           "localboard [link]",
		Short:         "LocalBoard - a whiteboard shared on the local network",
		Long:          "A collaborative whiteboard. Host a session and share its localboard:// link, or join one.",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.setup(cmd.ErrOrStderr())
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				return runJoin(opts, args[0], 0)
			}
			return runHost(opts, opts.Config.Port)
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", "", "YAML configuration file")
	cmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", "", "log level (debug|info|warn|error), overrides the configuration")

	cmd.AddCommand(NewHostCommand(opts))
	cmd.AddCommand(NewJoinCommand(opts))
	cmd.AddCommand(NewRenderCommand(opts))
	cmd.AddCommand(NewPDFCommand(opts))

	return cmd
}

// setup loads the configuration and installs the logger.
func (o *RootOptions) setup(stderr io.Writer) error {
	cfg, err := config.Load(o.ConfigPath)
	if err != nil {
		return err
	}
	if o.LogLevel != "" {
		if _, err := config.ParseLevel(o.LogLevel); err != nil {
			return err
		}
		cfg.LogLevel = o.LogLevel
	}
	o.Config = cfg
	o.Logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: cfg.Level()}))
	slog.SetDefault(o.Logger)
	return nil
}

// Execute runs the command line.
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
