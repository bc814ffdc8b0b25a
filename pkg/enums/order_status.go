package enums

import "fmt"

// OrderStatus tracks the fulfillment lifecycle of an order.
type OrderStatus string

const (
	OrderStatusPending        OrderStatus = "pending"
	OrderStatusPreparing      OrderStatus = "preparing"
	OrderStatusReady          OrderStatus = "ready"
	OrderStatusOutForDelivery OrderStatus = "out_for_delivery"
	OrderStatusDelivered      OrderStatus = "delivered"
	OrderStatusCancelled      OrderStatus = "cancelled"
)

var validOrderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusPreparing,
	OrderStatusReady,
	OrderStatusOutForDelivery,
	OrderStatusDelivered,
	OrderStatusCancelled,
}

// orderStatusRank orders the forward path; cancelled sits outside the rank.
var orderStatusRank = map[OrderStatus]int{
	OrderStatusPending:        1,
	OrderStatusPreparing:      2,
	OrderStatusReady:          3,
	OrderStatusOutForDelivery: 4,
	OrderStatusDelivered:      5,
}

// String implements fmt.Stringer.
func (s OrderStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known OrderStatus.
func (s OrderStatus) IsValid() bool {
	for _, candidate := range validOrderStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transitions are allowed.
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

// CanTransition reports whether from may move to next. The forward path is
// pending -> preparing -> ready -> out_for_delivery -> delivered, one step at
// a time; cancellation is allowed from any non-terminal state.
func CanTransition(from, next OrderStatus) bool {
	if !from.IsValid() || !next.IsValid() {
		return false
	}
	if from.IsTerminal() {
		return false
	}
	if next == OrderStatusCancelled {
		return true
	}
	fromRank, ok := orderStatusRank[from]
	if !ok {
		return false
	}
	nextRank, ok := orderStatusRank[next]
	if !ok {
		return false
	}
	return nextRank == fromRank+1
}

// Progress returns the tracking-bar fraction for the status: the forward
// states map to 1/5 through 5/5 and the terminal states render full.
func (s OrderStatus) Progress() (step, total int) {
	total = len(orderStatusRank)
	if s.IsTerminal() {
		return total, total
	}
	if rank, ok := orderStatusRank[s]; ok {
		return rank, total
	}
	return 0, total
}

// ParseOrderStatus converts raw input into an OrderStatus.
func ParseOrderStatus(value string) (OrderStatus, error) {
	for _, candidate := range validOrderStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid order status %q", value)
}
