package database

import (
	"fmt"
	"os"
	"path/filepath"

	"lsinv/internal/config"
	"lsinv/internal/inv"
)

// NewDatabaseFromConfig creates a Database implementation based on the
// database config type. The schema is migrated to the latest version on
// open; CheckMigrations still guards against a dirty or ahead schema.
func NewDatabaseFromConfig(cfg config.DatabaseConfig, hostID string) (inv.Database, error) {
	switch cfg.Type {
	case "sqlite":
		if cfg.DataDir == "" {
			return nil, fmt.Errorf("data_dir required for sqlite database")
		}
		if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
			return nil, fmt.Errorf("creating data directory: %w", err)
		}
		dbPath := filepath.Join(cfg.DataDir, hostID+".db")
		return open(dbPath)
	case "memory":
		return open(":memory:")
	default:
		return nil, fmt.Errorf("unknown database type: %s", cfg.Type)
	}
}

func open(path string) (*SQLiteDatabase, error) {
	db, err := NewSQLiteDatabase(path)
	if err != nil {
		return nil, err
	}
	if err := db.Migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating database: %w", err)
	}
	return db, nil
}
