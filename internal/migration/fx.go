package migration

import (
	"strings"

	"github.com/revalya/revalya/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Migrations only run against postgres; sqlite is a test-only dialect and
// tests create their own schema.
func runOnStartup(cfg config.Config, gdb *gorm.DB, log *zap.Logger) error {
	if !strings.EqualFold(cfg.DBType, "postgres") {
		log.Named("migration").Info("skipping migrations for non-postgres database",
			zap.String("db_type", cfg.DBType),
		)
		return nil
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return err
	}
	if err := RunMigrations(sqlDB); err != nil {
		return err
	}
	log.Named("migration").Info("database migrations applied")
	return nil
}

var Module = fx.Module("migration",
	fx.Invoke(runOnStartup),
)
