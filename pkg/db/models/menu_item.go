package models

import (
	"time"

	"github.com/google/uuid"
)

// MenuItem is a restaurant's catalog entry. Its price is the base unit price;
// variants override it and addons add on top of it at cart-add time.
type MenuItem struct {
	ID           uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	RestaurantID uuid.UUID         `gorm:"column:restaurant_id;type:uuid;not null;index"`
	Name         string            `gorm:"column:name;not null"`
	Description  *string           `gorm:"column:description"`
	PriceCents   int               `gorm:"column:price_cents;not null"`
	Category     string            `gorm:"column:category;not null"`
	ImageURL     *string           `gorm:"column:image_url"`
	Available    bool              `gorm:"column:available;not null;default:true"`
	Variants     []MenuItemVariant `gorm:"foreignKey:MenuItemID;constraint:OnDelete:CASCADE"`
	Addons       []MenuItemAddon   `gorm:"foreignKey:MenuItemID;constraint:OnDelete:CASCADE"`
	CreatedAt    time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}

// DefaultVariant returns the variant flagged as default, if any.
func (m *MenuItem) DefaultVariant() *MenuItemVariant {
	for i := range m.Variants {
		if m.Variants[i].IsDefault {
			return &m.Variants[i]
		}
	}
	return nil
}
