package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/orris-inc/visitorpass/internal/infrastructure/database"
	"github.com/orris-inc/visitorpass/internal/infrastructure/migration"
	"github.com/orris-inc/visitorpass/internal/interfaces/cli"
	httpRouter "github.com/orris-inc/visitorpass/internal/interfaces/http"
	"github.com/orris-inc/visitorpass/internal/shared/goroutine"
	"github.com/orris-inc/visitorpass/internal/shared/logger"
	"github.com/orris-inc/visitorpass/internal/shared/version"
)

const shutdownTimeout = 30 * time.Second

var (
	opts               = &cli.Options{}
	autoMigrate        bool
	skipMigrationCheck bool
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "server",
		Short: "Start the HTTP server",
		Long:  `Start the visitorpass HTTP API and the periodic expiry sweep.`,
		RunE:  run,
	}

	cmd.Flags().StringVarP(&opts.Env, "env", "e", "development", "Environment (development, test, production)")
	cmd.Flags().StringVarP(&opts.ConfigPath, "config", "c", "", "Path to config file (default: ./configs/config.yaml)")
	cmd.Flags().BoolVar(&autoMigrate, "auto-migrate", false, "Run database migrations on startup")
	cmd.Flags().BoolVar(&skipMigrationCheck, "skip-migration-check", false, "Skip migration status check on startup")

	return cmd
}

func run(cmd *cobra.Command, args []string) error {
	cfg, log, err := cli.Bootstrap(opts)
	if err != nil {
		return err
	}
	defer database.Close()

	env := opts.ResolveEnv()
	log.Infow("starting server",
		"environment", env,
		"version", version.Current().String(),
		"auto_migrate", autoMigrate)

	gin.SetMode(cfg.Server.Mode)
	gin.DefaultWriter = io.Discard

	if err := handleMigrations(cmd.Context(), env, database.DriverName(&cfg.Database), log); err != nil {
		return fmt.Errorf("migration handling failed: %w", err)
	}

	container, err := httpRouter.NewContainer(database.Get(), cfg, log)
	if err != nil {
		return fmt.Errorf("failed to build application: %w", err)
	}
	defer container.Shutdown()

	container.SetupRoutes()
	container.StartScheduler()

	srv := &http.Server{
		Addr:         cfg.Server.GetAddr(),
		Handler:      container.GetEngine(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErr := goroutine.Run(log, "http-server", func() error {
		log.Infow("server listening", "address", cfg.Server.GetAddr(), "mode", cfg.Server.Mode)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-quit:
		log.Infow("shutting down server", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Errorw("server forced to shutdown", "error", err)
		return err
	}

	log.Infow("server exited gracefully")
	return nil
}

func handleMigrations(ctx context.Context, env, driver string, log logger.Interface) error {
	if ctx == nil {
		ctx = context.Background()
	}

	if skipMigrationCheck {
		log.Infow("skipping migration check")
		return nil
	}

	if autoMigrate {
		if cli.MapEnvToGinMode(env) == gin.ReleaseMode {
			log.Warnw("auto-migration is enabled in production")
		}

		manager, err := migration.NewManager(env, driver, log)
		if err != nil {
			return err
		}
		return manager.Migrate(ctx, database.Get())
	}

	strategy, err := migration.NewGooseStrategy(driver, log)
	if err != nil {
		return err
	}

	current, err := strategy.GetVersion(ctx, database.Get())
	if err != nil {
		log.Warnw("failed to check migration status", "error", err)
		return nil
	}
	log.Infow("current migration version", "version", current)

	return nil
}
