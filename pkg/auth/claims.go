package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/chirag847/kisaaan/pkg/enums"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	UserID     uuid.UUID
	Email      string
	Role       enums.UserRole
	SystemRole *string
	JTI        string
}

// AccessTokenClaims represents the typed JWT issued to clients.
type AccessTokenClaims struct {
	UserID     uuid.UUID      `json:"user_id"`
	Email      string         `json:"email"`
	Role       enums.UserRole `json:"role"`
	SystemRole *string        `json:"system_role,omitempty"`
	jwt.RegisteredClaims
}

// IsAdmin reports whether the claims carry the admin system role.
func (c AccessTokenClaims) IsAdmin() bool {
	return c.SystemRole != nil && *c.SystemRole == enums.SystemRoleAdmin
}
