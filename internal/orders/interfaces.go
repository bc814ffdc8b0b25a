package orders

import (
	"context"
	"time"

	"github.com/campuseats/campuseats-backend/pkg/db/models"
	"github.com/campuseats/campuseats-backend/pkg/enums"
	"github.com/campuseats/campuseats-backend/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository defines persistence operations for checkout groups and orders.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateCheckoutGroup(ctx context.Context, group *models.CheckoutGroup) (*models.CheckoutGroup, error)
	FindCheckoutGroupByKey(ctx context.Context, idempotencyKey string) (*models.CheckoutGroup, error)
	CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error)
	CreateOrderItems(ctx context.Context, items []models.OrderItem) error
	FindOrderByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	FindOrderDetail(ctx context.Context, id uuid.UUID) (*models.Order, error)
	UpdateOrder(ctx context.Context, orderID uuid.UUID, updates map[string]any) error
	// UpdateStatusGuard performs a compare-and-set on the order status and
	// reports whether the row actually moved.
	UpdateStatusGuard(ctx context.Context, orderID uuid.UUID, from, to enums.OrderStatus) (bool, error)
	SetPaymentStatus(ctx context.Context, orderID uuid.UUID, status enums.PaymentStatus, failure *string) error
	// SetPaymentStatusGuard is the compare-and-set variant; it reports
	// whether the row still held the expected payment status.
	SetPaymentStatusGuard(ctx context.Context, orderID uuid.UUID, from, to enums.PaymentStatus, failure *string) (bool, error)
	SetPaymentIntent(ctx context.Context, orderID uuid.UUID, intentID string) error
	ListOrdersByUser(ctx context.Context, userID uuid.UUID, params pagination.Params) (*OrderList, error)
	ListOrdersByRestaurant(ctx context.Context, restaurantID uuid.UUID, status *enums.OrderStatus, params pagination.Params) (*OrderList, error)
	ListDriverQueue(ctx context.Context, params pagination.Params) (*OrderList, error)
	FindPendingPaymentBefore(ctx context.Context, cutoff time.Time) ([]models.Order, error)
}
