package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hyunhan-cho/LT-GDG/internal/bootstrap"
	"github.com/hyunhan-cho/LT-GDG/internal/logger"
	"github.com/hyunhan-cho/LT-GDG/internal/telemetry"
)

// rootOptions are the global flags.
type rootOptions struct {
	configPath string
	debug      bool
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "callguard",
		Short:         "Call-center abuse detection and agent compliance scoring",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	root.PersistentFlags().StringVar(&opts.configPath, "config", "",
		"config file (default is $CONFIG_PATH or ./config.yml)")
	root.PersistentFlags().BoolVar(&opts.debug, "debug", false, "enable debug logging")

	root.AddCommand(
		newAnalyzeCommand(opts),
		newBatchCommand(opts),
		newServeCommand(opts),
		newHistoryCommand(opts),
		newVersionCommand(opts),
	)
	return root
}

// openApp loads configuration and wires the app. withTelemetry registers the
// Prometheus metrics; only long-running commands need them.
func openApp(ctx context.Context, opts *rootOptions, withTelemetry bool) (*bootstrap.App, error) {
	cfg, err := bootstrap.LoadConfig(opts.configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if opts.debug {
		cfg.Service.Debug = true
		cfg.Logging.Level = "debug"
	}

	log, err := bootstrap.CreateLogger(cfg)
	if err != nil {
		return nil, err
	}

	var tel *telemetry.Provider
	if withTelemetry {
		tel = telemetry.NewProvider()
	}

	app, err := bootstrap.NewApp(ctx, cfg, log, tel)
	if err != nil {
		_ = log.Sync()
		return nil, fmt.Errorf("initialize: %w", err)
	}
	return app, nil
}

func closeApp(app *bootstrap.App) {
	if err := app.Close(); err != nil {
		app.Logger.Warn("Failed to close resources", logger.Error(err))
	}
	_ = app.Logger.Sync()
}

func newVersionCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := bootstrap.LoadConfig(opts.configPath)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s version %s\n", cfg.Service.Name, cfg.Service.Version)
			return nil
		},
	}
}
