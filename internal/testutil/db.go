// Package testutil builds the SQLite database used by package tests.
package testutil

import (
	"fmt"
	"strings"
	"testing"

	"boutique/internal/model"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB opens a private in-memory SQLite database with every table migrated.
// The information singleton row is seeded like the SQL migration does.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.ReplaceAll(uuid.NewString(), "-", "")
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("testutil: open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("testutil: sql db: %v", err)
	}
	// one connection keeps the in-memory database alive and serializes writes
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := db.AutoMigrate(model.All()...); err != nil {
		t.Fatalf("testutil: automigrate: %v", err)
	}
	if err := db.Create(&model.Information{ID: model.InformationID}).Error; err != nil {
		t.Fatalf("testutil: seed information: %v", err)
	}
	return db
}
