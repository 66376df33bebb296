package main

import (
	"github.com/spf13/cobra"

	"github.com/a3tai/casecite/internal/mcp"
)

func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the citation tools over MCP stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := signalContext(cmd.Context())
			defer cancel()

			st, lookup, closeStores, err := a.openStores(ctx)
			if err != nil {
				return err
			}
			defer closeStores()

			p, pdfService, err := a.newPipeline(a.cfg.InputDir, lookup, st)
			if err != nil {
				return err
			}

			server, err := mcp.NewServer(a.cfg, pdfService, p, st, a.logger)
			if err != nil {
				return err
			}
			return server.Run(ctx)
		},
	}
}
