package models

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// The test suites build their schemas with AutoMigrate against sqlite, so the
// model tags must stay free of postgres-only expressions.
func TestModelsMigrateOnSqlite(t *testing.T) {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := conn.AutoMigrate(&User{}, &Grain{}, &GrainImage{}, &Deal{}, &Contact{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	user := &User{
		ID:           uuid.New(),
		Email:        "migrate@example.com",
		PasswordHash: "hash",
		Name:         "Migrate Tester",
		Phone:        "9876543210",
		Role:         "farmer",
	}
	if err := conn.Create(user).Error; err != nil {
		t.Fatalf("insert user: %v", err)
	}
}
