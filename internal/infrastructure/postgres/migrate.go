package postgres

import (
	"go.uber.org/zap"

	"github.com/fastygo/todo/internal/config"
	"github.com/fastygo/todo/internal/infrastructure/migrations"
)

// RunMigrations applies pending schema migrations when RUN_MIGRATIONS is enabled.
func RunMigrations(cfg *config.Config, logger *zap.Logger) error {
	if cfg == nil || !cfg.Migrations.RunOnStart {
		return nil
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	if err := migrations.Up(migrations.DialectPostgres, cfg.PostgresURL()); err != nil {
		return err
	}

	logger.Info("database migrations applied")
	return nil
}
