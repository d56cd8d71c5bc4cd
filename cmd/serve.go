package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/JakeFAU/dealsite-ssr/internal/config"
	"github.com/JakeFAU/dealsite-ssr/internal/logging"
	"github.com/JakeFAU/dealsite-ssr/internal/server"
)

func newServeCmd(cfgFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Starts the HTTP server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), *cfgFile)
		},
	}
}

func runServe(ctx context.Context, cfgFile string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	app, err := server.Build(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to build application", zap.Error(err))
		return err
	}
	return app.Run(ctx)
}
