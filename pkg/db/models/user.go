package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/chirag847/kisaaan/pkg/enums"
)

// User represents the canonical identity entity.
type User struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey"`
	Email        string         `gorm:"type:text;not null;uniqueIndex"`
	PasswordHash string         `gorm:"column:password_hash;not null"`
	Name         string         `gorm:"column:name;not null"`
	Phone        string         `gorm:"column:phone;not null"`
	Role         enums.UserRole `gorm:"column:role;type:text;not null"`
	Address      *string        `gorm:"column:address"`
	Verified     bool           `gorm:"column:verified;not null;default:false"`
	AvatarPath   *string        `gorm:"column:avatar_path"`
	SystemRole   *string        `gorm:"column:system_role"`
	LastLoginAt  *time.Time     `gorm:"column:last_login_at"`
	CreatedAt    time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}

// IsAdmin reports whether the user carries the admin system role.
func (u User) IsAdmin() bool {
	return u.SystemRole != nil && *u.SystemRole == enums.SystemRoleAdmin
}
