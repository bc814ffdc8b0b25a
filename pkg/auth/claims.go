package auth

import (
	"github.com/campuseats/campuseats-backend/pkg/enums"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	UserID       uuid.UUID
	Role         enums.UserRole
	RestaurantID *uuid.UUID
}

// AccessTokenClaims represents the typed JWT issued to clients.
// RestaurantID is present only for restaurant_admin tokens and scopes
// every admin operation to that restaurant.
type AccessTokenClaims struct {
	UserID       uuid.UUID      `json:"user_id"`
	Role         enums.UserRole `json:"role"`
	RestaurantID *uuid.UUID     `json:"restaurant_id,omitempty"`
	jwt.RegisteredClaims
}
