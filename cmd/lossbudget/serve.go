package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/bayneri/lossbudget/internal/server"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type serveOptions struct {
	address string
}

func newServeCommand(global *globalOptions) *cobra.Command {
	o := &serveOptions{}
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the calculator over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.Run(cmd, global)
		},
	}
	cmd.Flags().StringVar(&o.address, "address", "", "listen address (env LOSSBUDGET_ADDRESS, default :8080)")
	return cmd
}

func (o *serveOptions) Run(cmd *cobra.Command, global *globalOptions) error {
	addr := o.address
	if addr == "" {
		addr = global.cfg.Address
	}
	srv, err := server.New(addr, global.calculator(), global.logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := srv.Run(ctx); err != nil {
		return err
	}
	global.logger.Info("server stopped", zap.String("address", addr))
	return nil
}
