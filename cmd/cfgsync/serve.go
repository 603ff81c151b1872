package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/standardbeagle/cfgsync/internal/server"
)

func newServeCmd(a *app) *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server",
		Long: `Start an MCP server exposing list_endpoints, plan_migration and
migrate_config. Uses stdio by default; --port serves SSE over HTTP.`,
		Example: `  cfgsync serve
  cfgsync serve --port 8080`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			server.Version = version
			srv := server.New(server.Config{
				Endpoints: a.endpoints,
				Files:     a.files,
				Logger:    a.logger,
				NoBackup:  a.settings.BackupsDisabled(),
			})

			if port > 0 {
				return srv.RunHTTP(ctx, port)
			}
			return srv.RunStdio(ctx)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "Serve SSE over HTTP on PORT instead of stdio")
	return cmd
}
