package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version information - these can be set during build with ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "version",
		Short:   "Display version information",
		Aliases: []string{"v"},
		Args:    cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "catalogd %s\n", Version)
			fmt.Fprintf(out, "commit:  %s\n", GitCommit)
			fmt.Fprintf(out, "built:   %s\n", BuildDate)
		},
	}
}
