package grains

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/chirag847/kisaaan/pkg/db/models"
	"github.com/chirag847/kisaaan/pkg/enums"
	"github.com/chirag847/kisaaan/pkg/pagination"
)

// FarmerSummary is the seller card embedded in grain reads.
type FarmerSummary struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Phone    string    `json:"phone"`
	Location *string   `json:"location,omitempty"`
	Verified bool      `json:"verified"`
}

// GrainDTO is the transport shape of a listing.
type GrainDTO struct {
	ID                uuid.UUID          `json:"id"`
	FarmerID          uuid.UUID          `json:"farmer_id"`
	GrainType         enums.GrainType    `json:"grain_type"`
	Quantity          decimal.Decimal    `json:"quantity"`
	AvailableQuantity decimal.Decimal    `json:"available_quantity"`
	PricePerQuintal   decimal.Decimal    `json:"price_per_quintal"`
	Quality           enums.GrainQuality `json:"quality"`
	Description       string             `json:"description"`
	Location          string             `json:"location"`
	HarvestDate       time.Time          `json:"harvest_date"`
	MoisturePercent   *float64           `json:"moisture_percent,omitempty"`
	Organic           bool               `json:"organic"`
	Status            enums.GrainStatus  `json:"status"`
	Images            []string           `json:"images"`
	Farmer            *FarmerSummary     `json:"farmer,omitempty"`
	CreatedAt         time.Time          `json:"created_at"`
	UpdatedAt         time.Time          `json:"updated_at"`
}

// GrainListResponse wraps a page of listings with pagination metadata.
type GrainListResponse struct {
	Grains []GrainDTO      `json:"grains"`
	Meta   pagination.Meta `json:"meta"`
}

// CreateGrainInput carries the validated multipart fields for a new listing.
type CreateGrainInput struct {
	GrainType       enums.GrainType
	Quantity        decimal.Decimal
	PricePerQuintal decimal.Decimal
	Quality         enums.GrainQuality
	Description     string
	Location        string
	HarvestDate     time.Time
	MoisturePercent *float64
	Organic         bool
	ImagePaths      []string
}

// UpdateGrainRequest carries the mutable listing fields. A quantity change
// resets available_quantity to the new total.
type UpdateGrainRequest struct {
	Quantity        *decimal.Decimal `json:"quantity,omitempty"`
	PricePerQuintal *decimal.Decimal `json:"price_per_quintal,omitempty"`
	Quality         *string          `json:"quality,omitempty"`
	Description     *string          `json:"description,omitempty"`
	Location        *string          `json:"location,omitempty"`
	MoisturePercent *float64         `json:"moisture_percent,omitempty"`
	Organic         *bool            `json:"organic,omitempty"`
}

// ListFilters narrows the public grain listing.
type ListFilters struct {
	GrainType   *enums.GrainType
	Location    string
	Quality     *enums.GrainQuality
	MinPrice    *decimal.Decimal
	MaxPrice    *decimal.Decimal
	OrganicOnly bool
}

// FromModel converts a persisted grain into its transport shape.
func FromModel(g *models.Grain) GrainDTO {
	images := make([]string, 0, len(g.Images))
	for _, img := range g.Images {
		images = append(images, img.Path)
	}

	dto := GrainDTO{
		ID:                g.ID,
		FarmerID:          g.FarmerID,
		GrainType:         g.GrainType,
		Quantity:          g.Quantity,
		AvailableQuantity: g.AvailableQuantity,
		PricePerQuintal:   g.PricePerQuintal,
		Quality:           g.Quality,
		Description:       g.Description,
		Location:          g.Location,
		HarvestDate:       g.HarvestDate,
		MoisturePercent:   g.MoisturePercent,
		Organic:           g.Organic,
		Status:            g.Status,
		Images:            images,
		CreatedAt:         g.CreatedAt,
		UpdatedAt:         g.UpdatedAt,
	}
	if g.Farmer != nil {
		dto.Farmer = &FarmerSummary{
			ID:       g.Farmer.ID,
			Name:     g.Farmer.Name,
			Phone:    g.Farmer.Phone,
			Location: g.Farmer.Address,
			Verified: g.Farmer.Verified,
		}
	}
	return dto
}
