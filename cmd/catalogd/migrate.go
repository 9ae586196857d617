package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/R3E-Network/asset_catalog/internal/app/runtime"
	"github.com/R3E-Network/asset_catalog/internal/platform/migrations"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the database schema",
		Long: `Create the catalog_assets table and its indexes in the configured
PostgreSQL database. Statements are idempotent, so running it twice is safe.`,
		Args: cobra.NoArgs,
		RunE: runMigrate,
	}
}

func runMigrate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if !strings.EqualFold(cfg.Database.Driver, "postgres") {
		return fmt.Errorf("migrate needs database.driver postgres, got %q", cfg.Database.Driver)
	}
	if err := runtime.Migrate(cmd.Context(), cfg.Database); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "applied %d migration statements\n", migrations.Count())
	return nil
}
