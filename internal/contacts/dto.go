package contacts

import (
	"time"

	"github.com/google/uuid"

	"github.com/chirag847/kisaaan/pkg/db/models"
	"github.com/chirag847/kisaaan/pkg/enums"
)

// SendRequest is an inquiry about a listing. The recipient is always the
// listing's farmer.
type SendRequest struct {
	GrainID      uuid.UUID `json:"grain_id" validate:"required"`
	Subject      string    `json:"subject" validate:"required,min=2,max=200"`
	Message      string    `json:"message" validate:"required,min=2,max=2000"`
	ContactEmail string    `json:"contact_email" validate:"required,email"`
	ContactPhone string    `json:"contact_phone" validate:"required,min=7,max=20"`
}

// UserSummary is the counterpart card on a contact read.
type UserSummary struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// ContactDTO is the transport shape of an inquiry.
type ContactDTO struct {
	ID           uuid.UUID        `json:"id"`
	GrainID      uuid.UUID        `json:"grain_id"`
	GrainType    *enums.GrainType `json:"grain_type,omitempty"`
	FromUserID   uuid.UUID        `json:"from_user_id"`
	ToUserID     uuid.UUID        `json:"to_user_id"`
	Subject      string           `json:"subject"`
	Message      string           `json:"message"`
	ContactEmail string           `json:"contact_email"`
	ContactPhone string           `json:"contact_phone"`
	Read         bool             `json:"read"`
	Replied      bool             `json:"replied"`
	From         *UserSummary     `json:"from,omitempty"`
	To           *UserSummary     `json:"to,omitempty"`
	CreatedAt    time.Time        `json:"created_at"`
}

// UnreadCountResponse reports pending inquiries for the recipient.
type UnreadCountResponse struct {
	Count int64 `json:"count"`
}

// FromModel converts a persisted contact into its transport shape.
func FromModel(c *models.Contact) ContactDTO {
	dto := ContactDTO{
		ID:           c.ID,
		GrainID:      c.GrainID,
		FromUserID:   c.FromUserID,
		ToUserID:     c.ToUserID,
		Subject:      c.Subject,
		Message:      c.Message,
		ContactEmail: c.ContactEmail,
		ContactPhone: c.ContactPhone,
		Read:         c.Read,
		Replied:      c.Replied,
		CreatedAt:    c.CreatedAt,
	}
	if c.Grain != nil {
		grainType := c.Grain.GrainType
		dto.GrainType = &grainType
	}
	if c.FromUser != nil {
		dto.From = &UserSummary{ID: c.FromUser.ID, Name: c.FromUser.Name}
	}
	if c.ToUser != nil {
		dto.To = &UserSummary{ID: c.ToUser.ID, Name: c.ToUser.Name}
	}
	return dto
}
