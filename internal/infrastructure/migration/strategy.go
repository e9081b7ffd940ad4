package migration

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"time"

	"github.com/pressly/goose/v3"
	"gorm.io/gorm"

	"github.com/orris-inc/visitorpass/internal/shared/logger"
)

//go:embed scripts/*.sql
var embeddedScripts embed.FS

// Strategy defines the interface for different migration strategies
type Strategy interface {
	// Migrate brings the schema up to date
	Migrate(ctx context.Context, db *gorm.DB) error
	// GetName returns the strategy name
	GetName() string
}

// GormAutoMigrateStrategy derives the schema from the gorm models. Used for
// local sqlite runs and tests.
type GormAutoMigrateStrategy struct {
	models []interface{}
	logger logger.Interface
}

func NewGormAutoMigrateStrategy(log logger.Interface) *GormAutoMigrateStrategy {
	return &GormAutoMigrateStrategy{
		models: AutoMigrateModels(),
		logger: log.With("component", "migration.gorm"),
	}
}

func (s *GormAutoMigrateStrategy) Migrate(ctx context.Context, db *gorm.DB) error {
	s.logger.Infow("starting gorm auto migration", "models_count", len(s.models))

	if err := db.WithContext(ctx).AutoMigrate(s.models...); err != nil {
		s.logger.Errorw("auto migration failed", "error", err)
		return fmt.Errorf("failed to auto migrate: %w", err)
	}

	s.logger.Infow("auto migration completed successfully")
	return nil
}

func (s *GormAutoMigrateStrategy) GetName() string {
	return "gorm_auto_migrate"
}

// MigrationState is one row of the goose status table.
type MigrationState struct {
	Version   int64
	Path      string
	Applied   bool
	AppliedAt time.Time
}

// GooseStrategy applies the versioned SQL scripts embedded in the binary.
type GooseStrategy struct {
	dialect goose.Dialect
	scripts fs.FS
	logger  logger.Interface
}

// NewGooseStrategy builds a goose strategy for a database driver name
// (mysql, postgres or sqlite).
func NewGooseStrategy(driver string, log logger.Interface) (*GooseStrategy, error) {
	dialect, err := gooseDialect(driver)
	if err != nil {
		return nil, err
	}

	scripts, err := fs.Sub(embeddedScripts, "scripts")
	if err != nil {
		return nil, fmt.Errorf("failed to open embedded migration scripts: %w", err)
	}

	return &GooseStrategy{
		dialect: dialect,
		scripts: scripts,
		logger:  log.With("component", "migration.goose"),
	}, nil
}

func gooseDialect(driver string) (goose.Dialect, error) {
	switch driver {
	case "", "mysql":
		return goose.DialectMySQL, nil
	case "postgres":
		return goose.DialectPostgres, nil
	case "sqlite":
		return goose.DialectSQLite3, nil
	default:
		return "", fmt.Errorf("unsupported migration dialect: %s", driver)
	}
}

func (s *GooseStrategy) provider(db *gorm.DB) (*goose.Provider, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	p, err := goose.NewProvider(s.dialect, sqlDB, s.scripts)
	if err != nil {
		return nil, fmt.Errorf("failed to create goose provider: %w", err)
	}
	return p, nil
}

func (s *GooseStrategy) Migrate(ctx context.Context, db *gorm.DB) error {
	p, err := s.provider(db)
	if err != nil {
		return err
	}

	currentVersion, err := p.GetDBVersion(ctx)
	if err != nil {
		s.logger.Errorw("failed to get current version", "error", err)
		return fmt.Errorf("failed to get current version: %w", err)
	}

	s.logger.Infow("current migration status", "version", currentVersion)

	results, err := p.Up(ctx)
	if err != nil {
		s.logger.Errorw("migration failed", "error", err)
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	finalVersion, err := p.GetDBVersion(ctx)
	if err != nil {
		return fmt.Errorf("failed to get final version: %w", err)
	}

	s.logger.Infow("migration completed successfully",
		"from_version", currentVersion,
		"to_version", finalVersion,
		"applied", len(results))

	return nil
}

func (s *GooseStrategy) GetName() string {
	return "goose"
}

// MigrateDown rolls back up to steps migrations, stopping early at version 0.
func (s *GooseStrategy) MigrateDown(ctx context.Context, db *gorm.DB, steps int) error {
	s.logger.Infow("starting down migration", "steps", steps)

	p, err := s.provider(db)
	if err != nil {
		return err
	}

	for i := 0; i < steps; i++ {
		version, err := p.GetDBVersion(ctx)
		if err != nil {
			return fmt.Errorf("failed to get version: %w", err)
		}
		if version == 0 {
			break
		}
		if _, err := p.Down(ctx); err != nil {
			s.logger.Errorw("down migration failed", "error", err, "version", version)
			return fmt.Errorf("failed to run down migration: %w", err)
		}
	}

	s.logger.Infow("down migration completed successfully")
	return nil
}

func (s *GooseStrategy) GetVersion(ctx context.Context, db *gorm.DB) (int64, error) {
	p, err := s.provider(db)
	if err != nil {
		return 0, err
	}

	version, err := p.GetDBVersion(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to get version: %w", err)
	}
	return version, nil
}

func (s *GooseStrategy) Status(ctx context.Context, db *gorm.DB) ([]MigrationState, error) {
	p, err := s.provider(db)
	if err != nil {
		return nil, err
	}

	statuses, err := p.Status(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get status: %w", err)
	}

	states := make([]MigrationState, 0, len(statuses))
	for _, st := range statuses {
		state := MigrationState{
			Version: st.Source.Version,
			Path:    st.Source.Path,
			Applied: st.State == goose.StateApplied,
		}
		if state.Applied {
			state.AppliedAt = st.AppliedAt.UTC()
		}
		states = append(states, state)
	}
	return states, nil
}
