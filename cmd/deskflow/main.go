package main

import (
	"os"

	"github.com/spf13/cobra"

	"deskflow/internal/interfaces/cli/migrate"
	"deskflow/internal/interfaces/cli/server"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "deskflow",
		Short: "Deskflow - internal service request platform",
		Long:  `Deskflow is the internal service request platform, bundling the HTTP API server and database migration tools.`,
	}

	rootCmd.AddCommand(
		server.NewCommand(),
		migrate.NewCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
