package datastore

import (
	"log/slog"

	"gorm.io/gorm"

	"github.com/tkivisto/fewshot-go/internal/errors"
)

// performAutoMigration runs GORM auto-migration for all run store entities.
func performAutoMigration(db *gorm.DB, debug bool, dbType, connectionInfo string) error {
	if err := db.AutoMigrate(&Run{}, &StageExecution{}, &Metric{}); err != nil {
		return errors.Newf("failed to auto-migrate %s database: %w", dbType, err).
			Category(errors.CategoryDatabase).
			Context("db_type", dbType).
			Build()
	}

	if debug {
		slog.Debug("database connection established", "db_type", dbType, "path", connectionInfo)
	}
	return nil
}
