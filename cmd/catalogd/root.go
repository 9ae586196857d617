package main

import (
	"github.com/spf13/cobra"

	"github.com/R3E-Network/asset_catalog/internal/config"
)

// configPath is shared by every subcommand that needs configuration.
var configPath string

// newRootCmd represents the base command when called without any subcommands
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "catalogd",
		Short: "Game asset catalogue service",
		Long: "catalogd runs the asset marketplace catalogue: publishing, search,\n" +
			"creator dashboards and the landing page summary.",
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "",
		"path to the YAML config (default "+config.DefaultPath+")")

	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newMigrateCmd())
	rootCmd.AddCommand(newVersionCmd())
	return rootCmd
}

func loadConfig() (*config.Config, error) {
	return config.Load(configPath)
}
