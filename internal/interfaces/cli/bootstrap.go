// Package cli holds the cobra commands of the visitorpass binary.
package cli

import (
	"fmt"
	"os"

	"github.com/orris-inc/visitorpass/internal/infrastructure/config"
	"github.com/orris-inc/visitorpass/internal/infrastructure/database"
	"github.com/orris-inc/visitorpass/internal/shared/biztime"
	"github.com/orris-inc/visitorpass/internal/shared/logger"
)

// Options are the persistent flags every command shares.
type Options struct {
	Env        string
	ConfigPath string
}

// ResolveEnv lets the ENV variable override the --env flag.
func (o *Options) ResolveEnv() string {
	if envVar := os.Getenv("ENV"); envVar != "" {
		return envVar
	}
	return o.Env
}

// Bootstrap loads configuration, then initializes the logger, the business
// timezone and the database in that order.
func Bootstrap(opts *Options) (*config.Config, logger.Interface, error) {
	env := opts.ResolveEnv()

	cfg, err := config.Load(MapEnvToGinMode(env), opts.ConfigPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	if err := logger.Init(&cfg.Logger, cfg.Server.Mode); err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	log := logger.NewLogger()

	if err := biztime.Init(cfg.Server.Timezone); err != nil {
		return nil, nil, fmt.Errorf("failed to initialize business timezone: %w", err)
	}

	if err := database.Init(&cfg.Database); err != nil {
		return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return cfg, log, nil
}

// MapEnvToGinMode translates deployment environment names to gin modes.
func MapEnvToGinMode(environment string) string {
	switch environment {
	case "production", "prod", "release":
		return "release"
	case "test", "testing":
		return "test"
	default:
		return "debug"
	}
}
