package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/R3E-Network/asset_catalog/internal/app/runtime"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API until interrupted",
		Long: `Run the catalogue HTTP API. SIGINT or SIGTERM drains in-flight requests
and closes the database pool before exiting.

Examples:
  catalogd serve
  catalogd serve --config /etc/catalog/catalog.yaml`,
		Args: cobra.NoArgs,
		RunE: runServe,
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	application, err := runtime.NewApplication(cfg)
	if err != nil {
		return err
	}

	runErr := application.Run(cmd.Context())

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := application.Shutdown(shutdownCtx); err != nil && runErr == nil {
		runErr = err
	}
	return runErr
}
