package checkout

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/campuseats/campuseats-backend/internal/cart"
	"github.com/campuseats/campuseats-backend/internal/checkout/helpers"
	"github.com/campuseats/campuseats-backend/internal/orders"
	"github.com/campuseats/campuseats-backend/pkg/db"
	"github.com/campuseats/campuseats-backend/pkg/db/models"
	"github.com/campuseats/campuseats-backend/pkg/enums"
	pkgerrors "github.com/campuseats/campuseats-backend/pkg/errors"
	"github.com/campuseats/campuseats-backend/pkg/logger"
	"github.com/campuseats/campuseats-backend/pkg/metrics"
	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v84"
	"gorm.io/gorm"
)

const idempotencyScope = "checkout"

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type idempotencyGuard interface {
	SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error)
	IdempotencyKey(scope, id string) string
	Del(ctx context.Context, keys ...string) error
}

// Service executes checkout orchestration: one cart in, one order per
// restaurant out, plus a payment intent for each.
type Service interface {
	Execute(ctx context.Context, userID, cartID uuid.UUID, input CheckoutInput) (*CheckoutResult, error)
	GetConfirmation(ctx context.Context, userID uuid.UUID, idempotencyKey string) (*CheckoutResult, error)
}

type service struct {
	tx          txRunner
	cartRepo    cart.CartRepository
	ordersRepo  orders.Repository
	guard       idempotencyGuard
	payments    PaymentIntentClient
	metrics     *metrics.OrderMetrics
	logg        *logger.Logger
	guardTTL    time.Duration
}

// NewService builds the checkout service.
func NewService(
	tx txRunner,
	cartRepo cart.CartRepository,
	ordersRepo orders.Repository,
	guard idempotencyGuard,
	payments PaymentIntentClient,
	orderMetrics *metrics.OrderMetrics,
	logg *logger.Logger,
	guardTTL time.Duration,
) (Service, error) {
	if tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if cartRepo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if ordersRepo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if guard == nil {
		return nil, fmt.Errorf("idempotency guard required")
	}
	if payments == nil {
		return nil, fmt.Errorf("payment intent client required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	if guardTTL <= 0 {
		guardTTL = 24 * time.Hour
	}
	return &service{
		tx:         tx,
		cartRepo:   cartRepo,
		ordersRepo: ordersRepo,
		guard:      guard,
		payments:   payments,
		metrics:    orderMetrics,
		logg:       logg,
		guardTTL:   guardTTL,
	}, nil
}

func (s *service) Execute(ctx context.Context, userID, cartID uuid.UUID, input CheckoutInput) (*CheckoutResult, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user identity missing")
	}
	if cartID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart id is required")
	}
	if input.IdempotencyKey == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "idempotency key is required")
	}

	guardKey := s.guard.IdempotencyKey(idempotencyScope, input.IdempotencyKey)
	claimed, err := s.guard.SetNX(ctx, guardKey, userID.String(), s.guardTTL)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "redis: claim idempotency key")
	}
	if !claimed {
		s.metrics.IncCheckout("duplicate")
		return nil, pkgerrors.New(pkgerrors.CodeIdempotency, "checkout already accepted for this key")
	}

	var created []models.Order
	txErr := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		cartRepo := s.cartRepo.WithTx(tx)
		ordersRepo := s.ordersRepo.WithTx(tx)

		record, err := cartRepo.FindCartByID(ctx, cartID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "cart not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load cart")
		}
		if err := helpers.ValidateCartForCheckout(record, userID); err != nil {
			return err
		}

		group := &models.CheckoutGroup{
			UserID:         userID,
			CartID:         record.ID,
			IdempotencyKey: input.IdempotencyKey,
		}
		createdGroup, err := ordersRepo.CreateCheckoutGroup(ctx, group)
		if err != nil {
			if db.IsUniqueViolation(err, "uniq_checkout_groups_idempotency_key") {
				return pkgerrors.New(pkgerrors.CodeIdempotency, "checkout already accepted for this key")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: create checkout group")
		}

		grouped := helpers.GroupByRestaurant(record.Items)
		totals := helpers.ComputeTotalsByRestaurant(record.Items)
		for _, restaurantID := range sortedRestaurantIDs(grouped) {
			items := grouped[restaurantID]
			order := &models.Order{
				CheckoutGroupID: createdGroup.ID,
				UserID:          userID,
				RestaurantID:    restaurantID,
				TotalCents:      totals[restaurantID].TotalCents,
				Currency:        enums.CurrencyUSD,
				Status:          enums.OrderStatusPending,
				PaymentStatus:   enums.PaymentStatusPending,
			}
			createdOrder, err := ordersRepo.CreateOrder(ctx, order)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: create order")
			}

			lines := make([]models.OrderItem, len(items))
			for i, item := range items {
				lines[i] = buildOrderItem(createdOrder.ID, item)
			}
			if err := ordersRepo.CreateOrderItems(ctx, lines); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: create order items")
			}
			created = append(created, *createdOrder)
		}

		if err := cartRepo.UpdateCartStatus(ctx, record.ID, enums.CartStatusConverted); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: convert cart")
		}
		return nil
	})
	if txErr != nil {
		// Release the guard so a corrected retry is not locked out for the
		// full TTL. Duplicate-key conflicts keep the guard in place.
		if appErr := pkgerrors.As(txErr); appErr == nil || appErr.Code() != pkgerrors.CodeIdempotency {
			if delErr := s.guard.Del(ctx, guardKey); delErr != nil {
				s.logg.Warn(ctx, "failed to release checkout idempotency key")
			}
		}
		s.metrics.IncCheckout("error")
		return nil, txErr
	}

	s.metrics.IncCheckout("success")
	s.metrics.AddOrdersCreated(len(created))

	result := &CheckoutResult{Orders: make([]OrderPayment, len(created))}
	for i, order := range created {
		result.CheckoutGroupID = order.CheckoutGroupID
		result.Orders[i] = s.requestPaymentIntent(ctx, order)
	}
	return result, nil
}

// requestPaymentIntent creates one Stripe intent for one order. The orders
// are already committed, so a gateway failure here is reported per order and
// leaves it pending payment.
func (s *service) requestPaymentIntent(ctx context.Context, order models.Order) OrderPayment {
	payment := OrderPayment{
		OrderID:      order.ID,
		RestaurantID: order.RestaurantID,
		TotalCents:   order.TotalCents,
	}

	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(int64(order.TotalCents)),
		Currency: stripe.String(string(stripe.CurrencyUSD)),
	}
	params.AddMetadata("order_id", order.ID.String())

	intent, err := s.payments.Create(ctx, params)
	if err != nil {
		s.logg.Error(s.logg.WithOrderID(ctx, order.ID.String()), "stripe payment intent creation failed", err)
		payment.PaymentError = "payment intent creation failed"
		return payment
	}

	if err := s.ordersRepo.SetPaymentIntent(ctx, order.ID, intent.ID); err != nil {
		s.logg.Error(s.logg.WithOrderID(ctx, order.ID.String()), "failed to persist payment intent id", err)
		payment.PaymentError = "payment intent could not be recorded"
		return payment
	}
	payment.ClientSecret = intent.ClientSecret
	return payment
}

// GetConfirmation replays the result of an accepted checkout by its
// idempotency key. Orders still awaiting payment get their client secret
// back, minting a fresh intent when the original creation failed, so losing
// the Execute response never strands an order.
func (s *service) GetConfirmation(ctx context.Context, userID uuid.UUID, idempotencyKey string) (*CheckoutResult, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user identity missing")
	}
	if idempotencyKey == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "idempotency key is required")
	}

	group, err := s.ordersRepo.FindCheckoutGroupByKey(ctx, idempotencyKey)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "checkout not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load checkout group")
	}
	if group.UserID != userID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "checkout does not belong to caller")
	}

	result := &CheckoutResult{
		CheckoutGroupID: group.ID,
		Orders:          make([]OrderPayment, len(group.Orders)),
	}
	for i, order := range group.Orders {
		result.Orders[i] = s.replayPayment(ctx, order)
	}
	return result, nil
}

// replayPayment rebuilds the payment handle for one order on confirmation
// replay. Settled and cancelled orders carry no secret.
func (s *service) replayPayment(ctx context.Context, order models.Order) OrderPayment {
	if order.PaymentStatus == enums.PaymentStatusPaid || order.Status == enums.OrderStatusCancelled {
		return OrderPayment{
			OrderID:      order.ID,
			RestaurantID: order.RestaurantID,
			TotalCents:   order.TotalCents,
		}
	}

	if order.PaymentIntentID == nil {
		// Intent creation failed during Execute; mint one now.
		return s.requestPaymentIntent(ctx, order)
	}

	payment := OrderPayment{
		OrderID:      order.ID,
		RestaurantID: order.RestaurantID,
		TotalCents:   order.TotalCents,
	}
	intent, err := s.payments.Get(ctx, *order.PaymentIntentID)
	if err != nil {
		s.logg.Error(s.logg.WithOrderID(ctx, order.ID.String()), "stripe payment intent lookup failed", err)
		payment.PaymentError = "payment intent lookup failed"
		return payment
	}
	payment.ClientSecret = intent.ClientSecret
	return payment
}

func buildOrderItem(orderID uuid.UUID, item models.CartItem) models.OrderItem {
	menuItemID := item.MenuItemID
	return models.OrderItem{
		OrderID:        orderID,
		MenuItemID:     &menuItemID,
		RestaurantID:   item.RestaurantID,
		Name:           item.Name,
		UnitPriceCents: item.UnitPriceCents,
		Quantity:       item.Quantity,
		VariantName:    item.VariantName,
		Addons:         item.Addons,
	}
}

// sortedRestaurantIDs fixes the iteration order so orders and intents are
// created deterministically.
func sortedRestaurantIDs(grouped map[uuid.UUID][]models.CartItem) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(grouped))
	for id := range grouped {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		return ids[i].String() < ids[j].String()
	})
	return ids
}
