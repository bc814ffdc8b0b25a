package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// OrderMetrics tracks checkout and payment reconciliation activity.
type OrderMetrics struct {
	checkouts     *prometheus.CounterVec
	ordersCreated prometheus.Counter
	webhookEvents *prometheus.CounterVec
	transitions   *prometheus.CounterVec
}

// NewOrderMetrics registers the order metrics on the provided registerer.
func NewOrderMetrics(reg prometheus.Registerer) *OrderMetrics {
	if reg == nil {
		return &OrderMetrics{}
	}
	checkouts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_total",
		Help: "Checkout attempts by outcome.",
	}, []string{"outcome"})
	ordersCreated := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "orders_created_total",
		Help: "Orders created through checkout.",
	})
	webhookEvents := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "payment_webhook_events_total",
		Help: "Stripe webhook events by type and outcome.",
	}, []string{"type", "outcome"})
	transitions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "order_status_transitions_total",
		Help: "Order status transitions by target status.",
	}, []string{"to"})
	reg.MustRegister(checkouts, ordersCreated, webhookEvents, transitions)
	return &OrderMetrics{
		checkouts:     checkouts,
		ordersCreated: ordersCreated,
		webhookEvents: webhookEvents,
		transitions:   transitions,
	}
}

// IncCheckout counts a checkout attempt with the given outcome.
func (o *OrderMetrics) IncCheckout(outcome string) {
	if o == nil || o.checkouts == nil {
		return
	}
	o.checkouts.WithLabelValues(normalizeLabel(outcome)).Inc()
}

// AddOrdersCreated counts orders produced by a successful checkout.
func (o *OrderMetrics) AddOrdersCreated(n int) {
	if o == nil || o.ordersCreated == nil || n <= 0 {
		return
	}
	o.ordersCreated.Add(float64(n))
}

// IncWebhookEvent counts a processed webhook event.
func (o *OrderMetrics) IncWebhookEvent(eventType, outcome string) {
	if o == nil || o.webhookEvents == nil {
		return
	}
	o.webhookEvents.WithLabelValues(normalizeLabel(eventType), normalizeLabel(outcome)).Inc()
}

// IncTransition counts a committed order status transition.
func (o *OrderMetrics) IncTransition(to string) {
	if o == nil || o.transitions == nil {
		return
	}
	o.transitions.WithLabelValues(normalizeLabel(to)).Inc()
}
