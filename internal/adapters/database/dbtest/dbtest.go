// Package dbtest opens a migrated throwaway SQLite database for tests.
package dbtest

import (
	"path/filepath"
	"testing"

	"snapgram/internal/adapters/database"
	"snapgram/internal/config"

	"gorm.io/gorm"
)

func Open(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := config.OpenDB("sqlite", filepath.Join(t.TempDir(), "snapgram_test.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("raw db: %v", err)
	}
	// one connection: sqlite serializes writers anyway and this avoids SQLITE_BUSY
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}
