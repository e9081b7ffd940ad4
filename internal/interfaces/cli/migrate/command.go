package migrate

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/orris-inc/visitorpass/internal/infrastructure/database"
	"github.com/orris-inc/visitorpass/internal/infrastructure/migration"
	"github.com/orris-inc/visitorpass/internal/interfaces/cli"
	"github.com/orris-inc/visitorpass/internal/shared/biztime"
	"github.com/orris-inc/visitorpass/internal/shared/logger"
)

var (
	opts  = &cli.Options{}
	steps int
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Database migration tools",
		Long:  `Manage the embedded goose migrations.`,
	}

	cmd.PersistentFlags().StringVarP(&opts.Env, "env", "e", "development", "Environment (development, test, production)")
	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", "", "Path to config file (default: ./configs/config.yaml)")

	cmd.AddCommand(
		newUpCommand(),
		newDownCommand(),
		newStatusCommand(),
	)

	return cmd
}

func newUpCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "Run all pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStrategy(cmd, func(ctx context.Context, s *migration.GooseStrategy, log logger.Interface) error {
				log.Infow("running up migrations", "environment", opts.ResolveEnv())
				return s.Migrate(ctx, database.Get())
			})
		},
	}
}

func newDownCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "down",
		Short: "Rollback migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStrategy(cmd, func(ctx context.Context, s *migration.GooseStrategy, log logger.Interface) error {
				log.Infow("running down migrations", "environment", opts.ResolveEnv(), "steps", steps)
				return s.MigrateDown(ctx, database.Get(), steps)
			})
		},
	}

	cmd.Flags().IntVarP(&steps, "steps", "n", 1, "Number of migrations to rollback")

	return cmd
}

func newStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStrategy(cmd, func(ctx context.Context, s *migration.GooseStrategy, log logger.Interface) error {
				current, err := s.GetVersion(ctx, database.Get())
				if err != nil {
					return fmt.Errorf("failed to get migration version: %w", err)
				}
				states, err := s.Status(ctx, database.Get())
				if err != nil {
					return fmt.Errorf("failed to get migration status: %w", err)
				}
				return printStatus(cmd.OutOrStdout(), opts.ResolveEnv(), current, states)
			})
		},
	}
}

func withStrategy(cmd *cobra.Command, fn func(context.Context, *migration.GooseStrategy, logger.Interface) error) error {
	cfg, log, err := cli.Bootstrap(opts)
	if err != nil {
		return err
	}
	defer database.Close()

	strategy, err := migration.NewGooseStrategy(database.DriverName(&cfg.Database), log)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if err := fn(ctx, strategy, log); err != nil {
		log.Errorw("migration command failed", "command", cmd.Name(), "error", err)
		return err
	}

	log.Infow("migration command completed", "command", cmd.Name())
	return nil
}

func printStatus(w io.Writer, env string, current int64, states []migration.MigrationState) error {
	fmt.Fprintf(w, "\nMigration Status:\n")
	fmt.Fprintf(w, "  Environment:     %s\n", env)
	fmt.Fprintf(w, "  Current Version: %d\n\n", current)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "VERSION\tSTATE\tAPPLIED AT\tFILE")
	for _, s := range states {
		state, appliedAt := "pending", "-"
		if s.Applied {
			state = "applied"
			appliedAt = biztime.FormatInBizTimezone(s.AppliedAt, "2006-01-02 15:04:05")
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", s.Version, state, appliedAt, s.Path)
	}
	return tw.Flush()
}
