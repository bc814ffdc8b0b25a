package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/campuseats/campuseats-backend/pkg/enums"
)

// Order is the per-restaurant unit produced at checkout. TotalCents is fixed
// when the order is created and never recomputed; items are immutable once
// placed. Status and PaymentStatus move independently: the first through the
// role-guarded transition path, the second through webhook reconciliation.
type Order struct {
	ID              uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CheckoutGroupID uuid.UUID           `gorm:"column:checkout_group_id;type:uuid;not null;index"`
	UserID          uuid.UUID           `gorm:"column:user_id;type:uuid;not null;index"`
	RestaurantID    uuid.UUID           `gorm:"column:restaurant_id;type:uuid;not null;index"`
	TotalCents      int                 `gorm:"column:total_cents;not null"`
	Currency        enums.Currency      `gorm:"column:currency;type:text;not null;default:'USD'"`
	Status          enums.OrderStatus   `gorm:"column:status;type:text;not null;default:'pending'"`
	PaymentStatus   enums.PaymentStatus `gorm:"column:payment_status;type:text;not null;default:'pending'"`
	PaymentIntentID *string             `gorm:"column:payment_intent_id"`
	PaymentFailure  *string             `gorm:"column:payment_failure"`
	Items           []OrderItem         `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	Restaurant      *Restaurant         `gorm:"foreignKey:RestaurantID"`
	CreatedAt       time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
