package sweep

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/orris-inc/visitorpass/internal/application/visitor/services"
	"github.com/orris-inc/visitorpass/internal/application/visitor/usecases"
	"github.com/orris-inc/visitorpass/internal/infrastructure/database"
	"github.com/orris-inc/visitorpass/internal/infrastructure/permission"
	"github.com/orris-inc/visitorpass/internal/infrastructure/repository"
	"github.com/orris-inc/visitorpass/internal/interfaces/cli"
	"github.com/orris-inc/visitorpass/internal/shared/biztime"
)

var (
	opts      = &cli.Options{}
	batchSize int
)

// NewCommand runs the expiry sweep once, for cron-driven deployments that do
// not keep the server's scheduler.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Expire pending visitor requests whose day has passed",
		RunE:  run,
	}

	cmd.Flags().StringVarP(&opts.Env, "env", "e", "development", "Environment (development, test, production)")
	cmd.Flags().StringVarP(&opts.ConfigPath, "config", "c", "", "Path to config file (default: ./configs/config.yaml)")
	cmd.Flags().IntVar(&batchSize, "batch-size", 0, "Override visitor.sweep_batch_size")

	return cmd
}

func run(cmd *cobra.Command, args []string) error {
	cfg, log, err := cli.Bootstrap(opts)
	if err != nil {
		return err
	}
	defer database.Close()

	log = log.Named("sweep")

	// Expiry is a system transition, no capability is checked.
	capabilities, err := permission.NewEnforcer(nil, cfg.Permission.ModelPath, log)
	if err != nil {
		return err
	}

	size := cfg.Visitor.SweepBatchSize
	if batchSize > 0 {
		size = batchSize
	}

	repo := repository.NewVisitorRequestRepository(database.Get(), log)
	lifecycle := services.NewLifecycle(repo, capabilities, biztime.NowUTC, log)
	uc := usecases.NewExpireDueRequestsUseCase(repo, lifecycle, size, log)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	result, err := uc.Execute(ctx)
	if err != nil {
		return fmt.Errorf("expiry sweep failed: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "scanned=%d expired=%d skipped=%d\n", result.Scanned, result.Expired, result.Skipped)
	return nil
}
