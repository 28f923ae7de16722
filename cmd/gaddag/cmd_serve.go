package main

import (
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/milden6/gaddag"
	"github.com/milden6/gaddag/internal/server"
)

func newServeCmd(c *cli) *cobra.Command {
	var indexPath, addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve queries over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := c.cfg.Server
			if addr != "" {
				cfg.Addr = addr
			}

			idx, err := gaddag.Load(indexPath)
			if err != nil {
				return err
			}
			srv := server.New(idx, server.Options{
				Path:       indexPath,
				MaxResults: cfg.MaxResults,
				Logger:     c.logger,
			})

			g, ctx := errgroup.WithContext(cmd.Context())
			g.Go(func() error {
				return srv.Run(ctx, cfg.Addr, cfg.ShutdownTimeout)
			})
			if cfg.Reload {
				g.Go(func() error {
					return srv.Watch(ctx)
				})
			}
			return g.Wait()
		},
	}
	cmd.Flags().StringVar(&indexPath, "index", "", "index file")
	cmd.Flags().StringVar(&addr, "addr", "", "listen address, overrides server.addr")
	_ = cmd.MarkFlagRequired("index")
	return cmd
}
