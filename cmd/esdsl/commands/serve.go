package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ncobase/esdsl/config"
	"github.com/ncobase/esdsl/logging/logger"
	"github.com/ncobase/esdsl/logging/observes"
	"github.com/ncobase/esdsl/version"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// NewServeCommand creates the serve command
func NewServeCommand(configFile *string) *cobra.Command {
	var watch bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(*configFile)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			info := version.GetVersionInfo()
			logger.SetVersion(info.Version)

			if t := cfg.Observes.Tracer; t.Enabled() {
				shutdown, err := observes.NewTracer(ctx, &observes.TracerOption{
					URL:                t.Endpoint,
					Name:               t.ServiceName,
					Version:            firstNonEmpty(t.ServiceVersion, info.Version),
					Environment:        t.Environment,
					SamplingRate:       t.SamplingRate,
					BatchTimeout:       t.BatchTimeout,
					ExportTimeout:      t.ExportTimeout,
					MaxExportBatchSize: t.MaxExportBatchSize,
				})
				if err != nil {
					return err
				}
				defer func() {
					if err := shutdown(context.WithoutCancel(ctx)); err != nil {
						logger.Warnf(ctx, "tracer shutdown: %v", err)
					}
				}()
			}

			srv, cleanup, err := InitializeServer()
			if err != nil {
				return err
			}
			defer cleanup()

			if watch {
				cfg.Watch(func(c *config.Config) {
					logger.StdLogger().SetLevel(logrus.Level(c.Logger.Level))
					logger.Infof(ctx, "config reloaded, log level %d", c.Logger.Level)
				})
			}

			return srv.Run(ctx)
		},
	}

	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "reload the log level when the config file changes")
	return cmd
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
