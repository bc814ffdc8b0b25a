package models

import (
	"time"

	"github.com/google/uuid"
)

// Restaurant is the catalog owner for menu items and the grouping unit for
// checkout: a cart spanning N restaurants produces N orders.
type Restaurant struct {
	ID              uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name            string     `gorm:"column:name;not null"`
	Campus          string     `gorm:"column:campus;not null"`
	Cuisine         *string    `gorm:"column:cuisine"`
	IsOpen          bool       `gorm:"column:is_open;not null;default:true"`
	StripeAccountID *string    `gorm:"column:stripe_account_id"`
	MenuItems       []MenuItem `gorm:"foreignKey:RestaurantID;constraint:OnDelete:CASCADE"`
	CreatedAt       time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
