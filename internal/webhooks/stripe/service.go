package stripewebhook

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/campuseats/campuseats-backend/pkg/db/models"
	"github.com/campuseats/campuseats-backend/pkg/enums"
	pkgerrors "github.com/campuseats/campuseats-backend/pkg/errors"
	"github.com/campuseats/campuseats-backend/pkg/logger"
	"github.com/campuseats/campuseats-backend/pkg/metrics"
	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v84"
	"gorm.io/gorm"
)

type orderStore interface {
	FindOrderByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	SetPaymentStatus(ctx context.Context, orderID uuid.UUID, status enums.PaymentStatus, failure *string) error
	UpdateStatusGuard(ctx context.Context, orderID uuid.UUID, from, to enums.OrderStatus) (bool, error)
}

type ServiceParams struct {
	Orders       orderStore
	Guard        *IdempotencyGuard
	OrderMetrics *metrics.OrderMetrics
	Logger       *logger.Logger
}

// Service reconciles payment state from verified Stripe events. Signature
// verification happens at the controller; by the time an event reaches
// HandleEvent it is authentic.
type Service struct {
	orders  orderStore
	guard   *IdempotencyGuard
	metrics *metrics.OrderMetrics
	logg    *logger.Logger
}

func NewService(params ServiceParams) (*Service, error) {
	if params.Orders == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "order store required")
	}
	if params.Guard == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "idempotency guard required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "logger required")
	}
	return &Service{
		orders:  params.Orders,
		guard:   params.Guard,
		metrics: params.OrderMetrics,
		logg:    params.Logger,
	}, nil
}

// HandleEvent applies one payment event to the order it references. A
// redelivered event is acked without side effects; an event naming an order
// this system never created is an internal failure so the gateway retries.
func (s *Service) HandleEvent(ctx context.Context, event *stripe.Event) error {
	if event == nil || event.Data == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "stripe event data required")
	}

	switch event.Type {
	case stripe.EventTypePaymentIntentSucceeded, stripe.EventTypePaymentIntentPaymentFailed:
	default:
		s.metrics.IncWebhookEvent(string(event.Type), "ignored")
		return nil
	}

	seen, err := s.guard.CheckAndMark(ctx, event.ID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "redis: claim webhook event")
	}
	if seen {
		s.metrics.IncWebhookEvent(string(event.Type), "duplicate")
		s.logg.Info(s.logg.WithField(ctx, "event_id", event.ID), "duplicate stripe event acked")
		return nil
	}

	if err := s.applyEvent(ctx, event); err != nil {
		// Release the claim so the gateway's redelivery gets another shot.
		if delErr := s.guard.Delete(ctx, event.ID); delErr != nil {
			s.logg.Warn(s.logg.WithField(ctx, "event_id", event.ID), "failed to release webhook event claim")
		}
		s.metrics.IncWebhookEvent(string(event.Type), "error")
		return err
	}
	s.metrics.IncWebhookEvent(string(event.Type), "processed")
	return nil
}

func (s *Service) applyEvent(ctx context.Context, event *stripe.Event) error {
	var intent stripe.PaymentIntent
	if err := json.Unmarshal(event.Data.Raw, &intent); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "decode payment intent event")
	}

	order, err := s.resolveOrder(ctx, intent.Metadata)
	if err != nil {
		return err
	}
	ctx = s.logg.WithOrderID(ctx, order.ID.String())

	switch event.Type {
	case stripe.EventTypePaymentIntentSucceeded:
		return s.markPaid(ctx, order)
	case stripe.EventTypePaymentIntentPaymentFailed:
		return s.markFailed(ctx, order, &intent)
	}
	return nil
}

// resolveOrder maps the intent metadata back to a local order. An event that
// cannot be traced to an order is an operator problem, not client input.
func (s *Service) resolveOrder(ctx context.Context, metadata map[string]string) (*models.Order, error) {
	raw := metadata["order_id"]
	if raw == "" {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "payment event carries no order id")
	}
	orderID, err := uuid.Parse(raw)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "malformed order id in payment event")
	}

	order, err := s.orders.FindOrderByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeInternal, "payment event references an unknown order")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: lookup order for payment event")
	}
	return order, nil
}

// markPaid is an unconditional set: reapplying it yields the same row. The
// pending->preparing advance is best effort; a restaurant that already moved
// the order keeps its state.
func (s *Service) markPaid(ctx context.Context, order *models.Order) error {
	if err := s.orders.SetPaymentStatus(ctx, order.ID, enums.PaymentStatusPaid, nil); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: mark order paid")
	}

	moved, err := s.orders.UpdateStatusGuard(ctx, order.ID, enums.OrderStatusPending, enums.OrderStatusPreparing)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: advance paid order")
	}
	if moved {
		s.metrics.IncTransition(enums.OrderStatusPreparing.String())
		s.logg.Info(ctx, "order advanced to preparing on payment")
	}
	return nil
}

func (s *Service) markFailed(ctx context.Context, order *models.Order, intent *stripe.PaymentIntent) error {
	reason := "payment failed"
	if intent.LastPaymentError != nil && intent.LastPaymentError.Msg != "" {
		reason = intent.LastPaymentError.Msg
	}
	if err := s.orders.SetPaymentStatus(ctx, order.ID, enums.PaymentStatusFailed, &reason); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: mark order payment failed")
	}
	s.logg.Warn(ctx, "order payment failed")
	return nil
}
