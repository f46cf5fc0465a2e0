package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/fittrack/fittrack/cmd/fittrack/cmd"
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "fittrack",
		Short:        "Maintenance tasks for the FitTrack database",
		SilenceUsage: true,
	}

	rootCmd.AddCommand(cmd.MigrateCmd())
	rootCmd.AddCommand(cmd.SeedCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
