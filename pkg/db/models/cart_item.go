package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/campuseats/campuseats-backend/pkg/types"
)

// CartItem snapshots one configured line: base item plus optional variant and
// addon selections. UnitPriceCents is fully resolved (variant override plus
// addon sum) so checkout never rereads the live menu.
type CartItem struct {
	ID             uuid.UUID             `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CartID         uuid.UUID             `gorm:"column:cart_id;type:uuid;not null;index;uniqueIndex:uniq_cart_items_cart_line_key"`
	MenuItemID     uuid.UUID             `gorm:"column:menu_item_id;type:uuid;not null"`
	RestaurantID   uuid.UUID             `gorm:"column:restaurant_id;type:uuid;not null"`
	Name           string                `gorm:"column:name;not null"`
	UnitPriceCents int                   `gorm:"column:unit_price_cents;not null"`
	Quantity       int                   `gorm:"column:quantity;not null"`
	VariantID      *uuid.UUID            `gorm:"column:variant_id;type:uuid"`
	VariantName    *string               `gorm:"column:variant_name"`
	Addons         types.AddonSelections `gorm:"column:addons;type:jsonb;serializer:json"`
	LineKey        string                `gorm:"column:line_key;not null;uniqueIndex:uniq_cart_items_cart_line_key"`
	CreatedAt      time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}
