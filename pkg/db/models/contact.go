package models

import (
	"time"

	"github.com/google/uuid"
)

// Contact is an inquiry sent about a listing.
type Contact struct {
	ID           uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	GrainID      uuid.UUID `gorm:"column:grain_id;type:uuid;not null;index"`
	FromUserID   uuid.UUID `gorm:"column:from_user_id;type:uuid;not null;index"`
	ToUserID     uuid.UUID `gorm:"column:to_user_id;type:uuid;not null;index"`
	Subject      string    `gorm:"column:subject;not null"`
	Message      string    `gorm:"column:message;not null"`
	ContactEmail string    `gorm:"column:contact_email;not null"`
	ContactPhone string    `gorm:"column:contact_phone;not null"`
	Read         bool      `gorm:"column:read;not null;default:false"`
	Replied      bool      `gorm:"column:replied;not null;default:false"`
	Grain        *Grain    `gorm:"foreignKey:GrainID"`
	FromUser     *User     `gorm:"foreignKey:FromUserID"`
	ToUser       *User     `gorm:"foreignKey:ToUserID"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
