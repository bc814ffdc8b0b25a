package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/campuseats/campuseats-backend/pkg/db/models"
	"github.com/campuseats/campuseats-backend/pkg/enums"
	"github.com/campuseats/campuseats-backend/pkg/logger"
	"github.com/campuseats/campuseats-backend/pkg/metrics"
	"github.com/google/uuid"
	"go.uber.org/multierr"
)

const defaultPendingPaymentTTL = 30 * time.Minute

// staleOrderStore is the slice of the orders repository the sweeper needs.
type staleOrderStore interface {
	FindPendingPaymentBefore(ctx context.Context, cutoff time.Time) ([]models.Order, error)
	UpdateStatusGuard(ctx context.Context, orderID uuid.UUID, from, to enums.OrderStatus) (bool, error)
	SetPaymentStatusGuard(ctx context.Context, orderID uuid.UUID, from, to enums.PaymentStatus, failure *string) (bool, error)
}

// intentCanceler voids the Stripe intent of a swept order so the customer
// cannot complete payment against a cancelled row.
type intentCanceler interface {
	Cancel(ctx context.Context, intentID string) error
}

// PaymentSweepJobParams configure the stale payment sweeper.
type PaymentSweepJobParams struct {
	Logger            *logger.Logger
	Orders            staleOrderStore
	Payments          intentCanceler
	OrderMetrics      *metrics.OrderMetrics
	PendingPaymentTTL time.Duration
}

// NewPaymentSweepJob builds the job that cancels orders whose payment
// never arrived.
func NewPaymentSweepJob(params PaymentSweepJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Orders == nil {
		return nil, fmt.Errorf("orders store required")
	}
	ttl := params.PendingPaymentTTL
	if ttl <= 0 {
		ttl = defaultPendingPaymentTTL
	}
	return &paymentSweepJob{
		logg:         params.Logger,
		orders:       params.Orders,
		payments:     params.Payments,
		orderMetrics: params.OrderMetrics,
		ttl:          ttl,
		now:          time.Now,
	}, nil
}

type paymentSweepJob struct {
	logg         *logger.Logger
	orders       staleOrderStore
	payments     intentCanceler
	orderMetrics *metrics.OrderMetrics
	ttl          time.Duration
	now          func() time.Time
}

func (j *paymentSweepJob) Name() string { return "payment-sweep" }

// Run cancels pending orders whose payment window expired. The guard on
// the status update means an order that got paid between the read and the
// write is left alone; the webhook wins that race.
func (j *paymentSweepJob) Run(ctx context.Context) error {
	cutoff := j.now().UTC().Add(-j.ttl)
	stale, err := j.orders.FindPendingPaymentBefore(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("query stale pending orders: %w", err)
	}
	if len(stale) == 0 {
		return nil
	}

	var errs []error
	cancelled := 0
	for _, order := range stale {
		moved, err := j.cancelOrder(ctx, order)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if moved {
			cancelled++
		}
	}
	runCtx := j.logg.WithField(ctx, "stale", len(stale))
	runCtx = j.logg.WithField(runCtx, "cancelled", cancelled)
	j.logg.Info(runCtx, "payment sweep finished")
	return multierr.Combine(errs...)
}

func (j *paymentSweepJob) cancelOrder(ctx context.Context, order models.Order) (bool, error) {
	moved, err := j.orders.UpdateStatusGuard(ctx, order.ID, enums.OrderStatusPending, enums.OrderStatusCancelled)
	if err != nil {
		return false, fmt.Errorf("cancel order %s: %w", order.ID, err)
	}
	if !moved {
		return false, nil
	}
	reason := "payment window expired"
	marked, err := j.orders.SetPaymentStatusGuard(ctx, order.ID, enums.PaymentStatusPending, enums.PaymentStatusFailed, &reason)
	if err != nil {
		return true, fmt.Errorf("mark payment failed for order %s: %w", order.ID, err)
	}
	if marked && j.payments != nil && order.PaymentIntentID != nil {
		if err := j.payments.Cancel(ctx, *order.PaymentIntentID); err != nil {
			return true, fmt.Errorf("void payment intent for order %s: %w", order.ID, err)
		}
	}
	j.orderMetrics.IncTransition(enums.OrderStatusCancelled.String())
	return true, nil
}
