package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/orris-inc/visitorpass/internal/interfaces/cli/migrate"
	"github.com/orris-inc/visitorpass/internal/interfaces/cli/server"
	"github.com/orris-inc/visitorpass/internal/interfaces/cli/sweep"
	"github.com/orris-inc/visitorpass/internal/interfaces/cli/version"
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "visitorpass",
		Short:        "Visitorpass - facility visitor access requests",
		Long:         `Visitorpass runs the visitor request API, its database migrations and the expiry sweep.`,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(
		server.NewCommand(),
		migrate.NewCommand(),
		sweep.NewCommand(),
		version.NewCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
