package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/campuseats/campuseats-backend/pkg/enums"
)

// Profile holds the role and display data for an authenticated user.
// Restaurant admins and drivers carry a restaurant binding where relevant.
type Profile struct {
	ID           uuid.UUID      `gorm:"column:id;type:uuid;primaryKey"`
	FullName     string         `gorm:"column:full_name;not null"`
	Email        string         `gorm:"column:email;not null;uniqueIndex"`
	Role         enums.UserRole `gorm:"column:role;type:text;not null;default:'customer'"`
	RestaurantID *uuid.UUID     `gorm:"column:restaurant_id;type:uuid"`
	CreatedAt    time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}
