package orders

import (
	"time"

	"github.com/campuseats/campuseats-backend/pkg/db/models"
	"github.com/campuseats/campuseats-backend/pkg/enums"
	"github.com/campuseats/campuseats-backend/pkg/money"
	"github.com/campuseats/campuseats-backend/pkg/types"
	"github.com/google/uuid"
)

// OrderSummary exposes the aggregated fields returned in order lists and the
// driver queue.
type OrderSummary struct {
	ID             uuid.UUID           `json:"id"`
	RestaurantID   uuid.UUID           `json:"restaurant_id"`
	RestaurantName string              `json:"restaurant_name,omitempty"`
	Status         enums.OrderStatus   `json:"status"`
	PaymentStatus  enums.PaymentStatus `json:"payment_status"`
	TotalCents     int                 `json:"total_cents"`
	Total          string              `json:"total"`
	Currency       enums.Currency      `json:"currency"`
	ProgressStep   int                 `json:"progress_step"`
	ProgressTotal  int                 `json:"progress_total"`
	CreatedAt      time.Time           `json:"created_at"`
}

// OrderItemLine is the purchase-time snapshot of one line on the order.
type OrderItemLine struct {
	ID             uuid.UUID             `json:"id"`
	MenuItemID     *uuid.UUID            `json:"menu_item_id,omitempty"`
	Name           string                `json:"name"`
	VariantName    *string               `json:"variant_name,omitempty"`
	Addons         types.AddonSelections `json:"addons,omitempty"`
	UnitPriceCents int                   `json:"unit_price_cents"`
	Quantity       int                   `json:"quantity"`
	LineTotalCents int                   `json:"line_total_cents"`
}

// OrderDetail is the confirmation / tracking view for a single order.
type OrderDetail struct {
	OrderSummary
	PaymentFailure *string         `json:"payment_failure,omitempty"`
	Items          []OrderItemLine `json:"items"`
}

// OrderList wraps paginated orders plus the next page cursor.
type OrderList struct {
	Orders     []OrderSummary `json:"orders"`
	NextCursor string         `json:"next_cursor,omitempty"`
}

func toOrderSummary(order models.Order) OrderSummary {
	step, total := order.Status.Progress()
	summary := OrderSummary{
		ID:            order.ID,
		RestaurantID:  order.RestaurantID,
		Status:        order.Status,
		PaymentStatus: order.PaymentStatus,
		TotalCents:    order.TotalCents,
		Total:         money.FormatCents(order.TotalCents),
		Currency:      order.Currency,
		ProgressStep:  step,
		ProgressTotal: total,
		CreatedAt:     order.CreatedAt,
	}
	if order.Restaurant != nil {
		summary.RestaurantName = order.Restaurant.Name
	}
	return summary
}

func toOrderDetail(order *models.Order) *OrderDetail {
	detail := &OrderDetail{
		OrderSummary:   toOrderSummary(*order),
		PaymentFailure: order.PaymentFailure,
		Items:          make([]OrderItemLine, len(order.Items)),
	}
	for i, item := range order.Items {
		detail.Items[i] = OrderItemLine{
			ID:             item.ID,
			MenuItemID:     item.MenuItemID,
			Name:           item.Name,
			VariantName:    item.VariantName,
			Addons:         item.Addons,
			UnitPriceCents: item.UnitPriceCents,
			Quantity:       item.Quantity,
			LineTotalCents: item.UnitPriceCents * item.Quantity,
		}
	}
	return detail
}
