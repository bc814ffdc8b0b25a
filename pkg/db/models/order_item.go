package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/campuseats/campuseats-backend/pkg/types"
)

// OrderItem captures the purchase-time snapshot of one cart line.
// UnitPriceCents carries the resolved price (variant plus addons) and must
// never be recomputed from the live menu_items table.
type OrderItem struct {
	ID             uuid.UUID             `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID        uuid.UUID             `gorm:"column:order_id;type:uuid;not null;index"`
	MenuItemID     *uuid.UUID            `gorm:"column:menu_item_id;type:uuid"`
	RestaurantID   uuid.UUID             `gorm:"column:restaurant_id;type:uuid;not null"`
	Name           string                `gorm:"column:name;not null"`
	UnitPriceCents int                   `gorm:"column:unit_price_cents;not null"`
	Quantity       int                   `gorm:"column:quantity;not null"`
	VariantName    *string               `gorm:"column:variant_name"`
	Addons         types.AddonSelections `gorm:"column:addons;type:jsonb;serializer:json"`
	CreatedAt      time.Time             `gorm:"column:created_at;autoCreateTime"`
}
