package auth

import (
	"github.com/chirag847/kisaaan/internal/users"
	"github.com/chirag847/kisaaan/pkg/enums"
)

// LoginRequest captures the user credentials sent to the login endpoint.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RegisterRequest contains the payload required for onboarding a new user.
type RegisterRequest struct {
	Name     string         `json:"name" validate:"required,min=2,max=100"`
	Email    string         `json:"email" validate:"required,email"`
	Password string         `json:"password" validate:"required,min=8"`
	Phone    string         `json:"phone" validate:"required,min=7,max=20"`
	Role     enums.UserRole `json:"role" validate:"required,oneof=farmer buyer"`
	Address  *string        `json:"address,omitempty"`
}

// AuthResponse contains the token and user produced by a successful
// registration or login.
type AuthResponse struct {
	AccessToken string         `json:"access_token"`
	User        *users.UserDTO `json:"user"`
}

// UpdateProfileRequest carries the mutable profile fields. Email and role
// are immutable after registration.
type UpdateProfileRequest struct {
	Name    *string `json:"name,omitempty" validate:"omitempty,min=2,max=100"`
	Phone   *string `json:"phone,omitempty" validate:"omitempty,min=7,max=20"`
	Address *string `json:"address,omitempty"`
}
