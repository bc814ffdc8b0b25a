package checkout

import (
	"github.com/google/uuid"
)

// CheckoutInput captures the caller-supplied checkout payload. The
// idempotency key is minted client-side so a retried request is recognized.
type CheckoutInput struct {
	IdempotencyKey string
}

// OrderPayment carries the per-restaurant payment handle returned to the
// client. ClientSecret is empty when intent creation failed; PaymentError
// explains why so the client can retry payment for that order alone.
type OrderPayment struct {
	OrderID      uuid.UUID `json:"order_id"`
	RestaurantID uuid.UUID `json:"restaurant_id"`
	TotalCents   int       `json:"total_cents"`
	ClientSecret string    `json:"client_secret,omitempty"`
	PaymentError string    `json:"payment_error,omitempty"`
}

// CheckoutResult is the confirmation payload for one checkout execution.
type CheckoutResult struct {
	CheckoutGroupID uuid.UUID      `json:"checkout_group_id"`
	Orders          []OrderPayment `json:"orders"`
}
