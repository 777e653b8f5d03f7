package grains

import (
	"fmt"
	"testing"
	"time"

	"github.com/chirag847/kisaaan/pkg/db/models"
	"github.com/chirag847/kisaaan/pkg/enums"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := conn.AutoMigrate(&models.User{}, &models.Grain{}, &models.GrainImage{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return conn
}

func mustCreateTestFarmer(t *testing.T, tx *gorm.DB) *models.User {
	t.Helper()
	user := &models.User{
		ID:           uuid.New(),
		Email:        fmt.Sprintf("farmer_%s@example.com", uuid.NewString()),
		PasswordHash: "hash",
		Name:         "Test Farmer",
		Phone:        "9876543210",
		Role:         enums.UserRoleFarmer,
	}
	if err := tx.Create(user).Error; err != nil {
		t.Fatalf("create farmer: %v", err)
	}
	return user
}

func mustCreateTestGrain(t *testing.T, tx *gorm.DB, farmerID uuid.UUID, mutate ...func(*models.Grain)) *models.Grain {
	t.Helper()
	grain := &models.Grain{
		ID:                uuid.New(),
		FarmerID:          farmerID,
		GrainType:         enums.GrainTypeWheat,
		Quantity:          decimal.NewFromInt(100),
		AvailableQuantity: decimal.NewFromInt(100),
		PricePerQuintal:   decimal.NewFromInt(2200),
		Quality:           enums.GrainQualityGood,
		Description:       "Sharbati wheat, sun dried",
		Location:          "Sehore, Madhya Pradesh",
		HarvestDate:       time.Now().AddDate(0, -1, 0),
		Status:            enums.GrainStatusAvailable,
		Images: []models.GrainImage{
			{ID: uuid.New(), Path: "/uploads/grains/grain-test.jpg", Position: 0},
		},
	}
	for _, fn := range mutate {
		fn(grain)
	}
	if err := tx.Create(grain).Error; err != nil {
		t.Fatalf("create grain: %v", err)
	}
	return grain
}
