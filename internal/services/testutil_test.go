package services

import (
	"path/filepath"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// newTestDB opens a throwaway sqlite database under t.TempDir and
// migrates the given models. A file-backed database is used instead of
// :memory: because gorm's connection pool would otherwise hand each
// connection its own empty database.
func newTestDB(t *testing.T, dst ...interface{}) *gorm.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.db")
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	if err := db.AutoMigrate(dst...); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}
	return db
}
