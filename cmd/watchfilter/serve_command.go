package main

import (
	"context"
	"fmt"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"watchfilter/internal/logging"
	"watchfilter/internal/server"
)

func newServeCommand(ctx *commandContext) *cobra.Command {
	var bind string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if trimmed := strings.TrimSpace(bind); trimmed != "" {
				cfg.API.Bind = trimmed
			}
			runtime, err := ctx.ensureRuntime()
			if err != nil {
				return err
			}

			signalCtx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			srv, err := server.New(cfg.API.Bind, runtime.Service, runtime.Metrics, ctx.logger)
			if err != nil {
				return err
			}
			if err := srv.Start(signalCtx); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Listening on http://%s\n", srv.Addr())

			<-signalCtx.Done()
			ctx.logger.Info("shutting down", logging.String("reason", context.Cause(signalCtx).Error()))
			srv.Stop()
			return nil
		},
	}

	cmd.Flags().StringVar(&bind, "bind", "", "Override the configured bind address")
	return cmd
}
