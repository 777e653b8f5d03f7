package deals

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/chirag847/kisaaan/pkg/db/models"
	"github.com/chirag847/kisaaan/pkg/enums"
)

// CreateDealRequest is the buyer's offer on a listing.
type CreateDealRequest struct {
	GrainID         uuid.UUID       `json:"grain_id" validate:"required"`
	Quantity        decimal.Decimal `json:"quantity" validate:"required"`
	AgreedPrice     decimal.Decimal `json:"agreed_price" validate:"required"`
	DeliveryDate    *time.Time      `json:"delivery_date,omitempty"`
	DeliveryAddress *string         `json:"delivery_address,omitempty"`
	Notes           *string         `json:"notes,omitempty"`
}

// SetStatusRequest moves a deal along its lifecycle.
type SetStatusRequest struct {
	Status       string     `json:"status" validate:"required"`
	DeliveryDate *time.Time `json:"delivery_date,omitempty"`
}

// PartySummary is the counterpart card embedded in deal reads.
type PartySummary struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Phone string    `json:"phone"`
}

// DealDTO is the transport shape of a deal.
type DealDTO struct {
	ID              uuid.UUID        `json:"id"`
	GrainID         uuid.UUID        `json:"grain_id"`
	FarmerID        uuid.UUID        `json:"farmer_id"`
	BuyerID         uuid.UUID        `json:"buyer_id"`
	Quantity        decimal.Decimal  `json:"quantity"`
	AgreedPrice     decimal.Decimal  `json:"agreed_price"`
	TotalAmount     decimal.Decimal  `json:"total_amount"`
	Status          enums.DealStatus `json:"status"`
	DeliveryDate    *time.Time       `json:"delivery_date,omitempty"`
	DeliveryAddress *string          `json:"delivery_address,omitempty"`
	PaymentID       *string          `json:"payment_id,omitempty"`
	Notes           *string          `json:"notes,omitempty"`
	GrainType       *enums.GrainType `json:"grain_type,omitempty"`
	Farmer          *PartySummary    `json:"farmer,omitempty"`
	Buyer           *PartySummary    `json:"buyer,omitempty"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
}

// FromModel converts a persisted deal into its transport shape.
func FromModel(d *models.Deal) DealDTO {
	dto := DealDTO{
		ID:              d.ID,
		GrainID:         d.GrainID,
		FarmerID:        d.FarmerID,
		BuyerID:         d.BuyerID,
		Quantity:        d.Quantity,
		AgreedPrice:     d.AgreedPrice,
		TotalAmount:     d.TotalAmount,
		Status:          d.Status,
		DeliveryDate:    d.DeliveryDate,
		DeliveryAddress: d.DeliveryAddress,
		PaymentID:       d.PaymentID,
		Notes:           d.Notes,
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
	}
	if d.Grain != nil {
		grainType := d.Grain.GrainType
		dto.GrainType = &grainType
	}
	if d.Farmer != nil {
		dto.Farmer = &PartySummary{ID: d.Farmer.ID, Name: d.Farmer.Name, Phone: d.Farmer.Phone}
	}
	if d.Buyer != nil {
		dto.Buyer = &PartySummary{ID: d.Buyer.ID, Name: d.Buyer.Name, Phone: d.Buyer.Phone}
	}
	return dto
}
