package models

import (
	"time"

	"github.com/google/uuid"
)

// MenuItemVariant is a size/style option whose price replaces the item's base
// price. At most one variant per item may be the default.
type MenuItemVariant struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	MenuItemID uuid.UUID `gorm:"column:menu_item_id;type:uuid;not null;index"`
	Name       string    `gorm:"column:name;not null"`
	PriceCents int       `gorm:"column:price_cents;not null"`
	IsDefault  bool      `gorm:"column:is_default;not null;default:false"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
