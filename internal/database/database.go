package database

import (
	"fmt"
	"strings"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mfernan/user-tasks-api/internal/config"
	"github.com/mfernan/user-tasks-api/internal/models"
)

// Open connects to the store selected by the configured DATABASE_URL and
// returns the handle. The handle is passed explicitly to every collaborator;
// there is no package-level instance.
func Open(cfg *config.Config) (*gorm.DB, error) {
	logMode := logger.Info
	if cfg.GinMode == "release" {
		logMode = logger.Warn
	}

	db, err := gorm.Open(dialectorFor(cfg.DatabaseURL), &gorm.Config{
		Logger: logger.Default.LogMode(logMode),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return db, nil
}

// dialectorFor maps a DSN to a gorm dialector by URL scheme. A DSN without a
// recognized scheme is a SQLite file path, matching the local-development
// default.
func dialectorFor(dsn string) gorm.Dialector {
	switch {
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		return postgres.Open(dsn)
	case strings.HasPrefix(dsn, "mysql://"):
		return mysql.Open(strings.TrimPrefix(dsn, "mysql://"))
	case strings.HasPrefix(dsn, "sqlite://"):
		return sqlite.Open(strings.TrimPrefix(dsn, "sqlite://"))
	default:
		return sqlite.Open(dsn)
	}
}

// Migrate creates or updates the users and tasks tables.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.Task{},
	)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}
