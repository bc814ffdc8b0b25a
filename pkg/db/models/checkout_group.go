package models

import (
	"time"

	"github.com/google/uuid"
)

// CheckoutGroup records one checkout attempt. All orders produced from the
// same cart conversion hang off one group, and the idempotency key makes a
// retried checkout return the existing group instead of duplicating orders.
type CheckoutGroup struct {
	ID             uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID         uuid.UUID `gorm:"column:user_id;type:uuid;not null;index"`
	CartID         uuid.UUID `gorm:"column:cart_id;type:uuid;not null"`
	IdempotencyKey string    `gorm:"column:idempotency_key;not null;uniqueIndex:uniq_checkout_groups_idempotency_key"`
	Orders         []Order   `gorm:"foreignKey:CheckoutGroupID;constraint:OnDelete:CASCADE"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
