package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/chirag847/kisaaan/pkg/enums"
)

// Deal tracks a negotiation between a buyer and a farmer over one listing.
type Deal struct {
	ID              uuid.UUID        `gorm:"column:id;type:uuid;primaryKey"`
	GrainID         uuid.UUID        `gorm:"column:grain_id;type:uuid;not null;index"`
	FarmerID        uuid.UUID        `gorm:"column:farmer_id;type:uuid;not null;index"`
	BuyerID         uuid.UUID        `gorm:"column:buyer_id;type:uuid;not null;index"`
	Quantity        decimal.Decimal  `gorm:"column:quantity;type:numeric(12,2);not null"`
	AgreedPrice     decimal.Decimal  `gorm:"column:agreed_price;type:numeric(12,2);not null"`
	TotalAmount     decimal.Decimal  `gorm:"column:total_amount;type:numeric(14,2);not null"`
	Status          enums.DealStatus `gorm:"column:status;type:text;not null;default:negotiating;index"`
	DeliveryDate    *time.Time       `gorm:"column:delivery_date"`
	DeliveryAddress *string          `gorm:"column:delivery_address"`
	PaymentID       *string          `gorm:"column:payment_id"`
	Notes           *string          `gorm:"column:notes"`
	Grain           *Grain           `gorm:"foreignKey:GrainID"`
	Farmer          *User            `gorm:"foreignKey:FarmerID"`
	Buyer           *User            `gorm:"foreignKey:BuyerID"`
	CreatedAt       time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}

// InvolvesUser reports whether the user is the buyer or the farmer on the deal.
func (d Deal) InvolvesUser(userID uuid.UUID) bool {
	return d.BuyerID == userID || d.FarmerID == userID
}
