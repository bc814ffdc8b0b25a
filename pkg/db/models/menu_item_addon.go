package models

import (
	"time"

	"github.com/google/uuid"
)

// MenuItemAddon is an optional extra priced on top of the resolved unit
// price. Addons are grouped by category for presentation; multiple may be
// selected on one order line.
type MenuItemAddon struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	MenuItemID uuid.UUID `gorm:"column:menu_item_id;type:uuid;not null;index"`
	Name       string    `gorm:"column:name;not null"`
	PriceCents int       `gorm:"column:price_cents;not null"`
	Category   string    `gorm:"column:category;not null;default:'extras'"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
