package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/chirag847/kisaaan/pkg/enums"
)

// Grain represents a farmer's listing. AvailableQuantity moves between 0 and
// Quantity as deals complete or release their reservations.
type Grain struct {
	ID                uuid.UUID          `gorm:"column:id;type:uuid;primaryKey"`
	FarmerID          uuid.UUID          `gorm:"column:farmer_id;type:uuid;not null;index"`
	GrainType         enums.GrainType    `gorm:"column:grain_type;type:text;not null;index"`
	Quantity          decimal.Decimal    `gorm:"column:quantity;type:numeric(12,2);not null"`
	AvailableQuantity decimal.Decimal    `gorm:"column:available_quantity;type:numeric(12,2);not null"`
	PricePerQuintal   decimal.Decimal    `gorm:"column:price_per_quintal;type:numeric(12,2);not null"`
	Quality           enums.GrainQuality `gorm:"column:quality;type:text;not null"`
	Description       string             `gorm:"column:description;not null"`
	Location          string             `gorm:"column:location;not null"`
	HarvestDate       time.Time          `gorm:"column:harvest_date;not null"`
	MoisturePercent   *float64           `gorm:"column:moisture_percent;type:numeric(5,2)"`
	Organic           bool               `gorm:"column:organic;not null;default:false"`
	Status            enums.GrainStatus  `gorm:"column:status;type:text;not null;default:available"`
	Images            []GrainImage       `gorm:"foreignKey:GrainID;constraint:OnDelete:CASCADE"`
	Farmer            *User              `gorm:"foreignKey:FarmerID"`
	CreatedAt         time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}

// GrainImage is a stored upload attached to a listing, ordered by Position.
type GrainImage struct {
	ID       uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	GrainID  uuid.UUID `gorm:"column:grain_id;type:uuid;not null;index"`
	Path     string    `gorm:"column:path;not null"`
	Position int       `gorm:"column:position;not null;default:0"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}
