package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hyunhan-cho/LT-GDG/internal/logger"
	"github.com/hyunhan-cho/LT-GDG/internal/profiling"
)

func newServeCommand(opts *rootOptions) *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP analysis API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := openApp(cmd.Context(), opts, true)
			if err != nil {
				return err
			}
			defer closeApp(app)

			if port > 0 {
				app.Config.Service.Port = port
			}

			profiler, err := profiling.Start(app.Config.Profiling, app.Config.Service, app.Logger)
			if err != nil {
				app.Logger.Warn("Failed to start profiler", logger.Error(err))
			}
			defer func() {
				if stopErr := profiler.Stop(); stopErr != nil {
					app.Logger.Warn("Failed to stop profiler", logger.Error(stopErr))
				}
			}()

			if err = app.NewServer().Run(cmd.Context()); err != nil {
				return fmt.Errorf("serve: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&port, "port", 0, "override service.port")
	return cmd
}
