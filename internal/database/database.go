// Package database opens the SQLite database through GORM and applies migrations.
package database

import (
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/axellelanca/linkbio/internal/models"
)

// InMemory is the database name used for an ephemeral database (tests, demos).
const InMemory = ":memory:"

// Open connects to the SQLite database file name.
// An in-memory database is limited to a single connection, since every
// new SQLite connection to ":memory:" would see an empty database.
func Open(name string, log *zap.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(name), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database %q: %w", name, err)
	}

	if name == InMemory {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get underlying SQL database: %w", err)
		}
		sqlDB.SetMaxOpenConns(1)
	}

	log.Debug("Database opened", zap.String("name", name))
	return db, nil
}

// Migrate creates or updates the profiles, links, domains and click_events tables.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}

// Close releases the underlying connection pool.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
