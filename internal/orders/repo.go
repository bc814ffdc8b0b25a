package orders

import (
	"context"
	"time"

	"github.com/campuseats/campuseats-backend/pkg/db/models"
	"github.com/campuseats/campuseats-backend/pkg/enums"
	pkgerrors "github.com/campuseats/campuseats-backend/pkg/errors"
	"github.com/campuseats/campuseats-backend/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// listQuery carries parsed pagination plus optional filters for the list
// methods. Services build it from request params before hitting the repo.
type listQuery struct {
	cursor *pagination.Cursor
	limit  int
	status *enums.OrderStatus
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds an orders repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) CreateCheckoutGroup(ctx context.Context, group *models.CheckoutGroup) (*models.CheckoutGroup, error) {
	if err := r.db.WithContext(ctx).Create(group).Error; err != nil {
		return nil, err
	}
	return group, nil
}

func (r *repository) FindCheckoutGroupByKey(ctx context.Context, idempotencyKey string) (*models.CheckoutGroup, error) {
	var group models.CheckoutGroup
	err := r.db.WithContext(ctx).
		Preload("Orders", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Preload("Orders.Items").
		Where("idempotency_key = ?", idempotencyKey).
		First(&group).Error
	if err != nil {
		return nil, err
	}
	return &group, nil
}

func (r *repository) CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error) {
	if err := r.db.WithContext(ctx).Create(order).Error; err != nil {
		return nil, err
	}
	return order, nil
}

func (r *repository) CreateOrderItems(ctx context.Context, items []models.OrderItem) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&items).Error
}

func (r *repository) FindOrderByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&order).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *repository) FindOrderDetail(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Preload("Restaurant").
		Where("id = ?", id).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *repository) UpdateOrder(ctx context.Context, orderID uuid.UUID, updates map[string]any) error {
	if len(updates) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", orderID).
		Updates(updates).Error
}

// UpdateStatusGuard moves the order from one status to another only when the
// row still holds the expected status. RowsAffected == 0 means a concurrent
// writer got there first or the caller's view was stale.
func (r *repository) UpdateStatusGuard(ctx context.Context, orderID uuid.UUID, from, to enums.OrderStatus) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ? AND status = ?", orderID, from).
		Update("status", to)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *repository) SetPaymentStatus(ctx context.Context, orderID uuid.UUID, status enums.PaymentStatus, failure *string) error {
	updates := map[string]any{
		"payment_status":  status,
		"payment_failure": failure,
	}
	return r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", orderID).
		Updates(updates).Error
}

// SetPaymentStatusGuard writes the payment status only while the row still
// holds the expected one, so a webhook result landing concurrently is not
// clobbered.
func (r *repository) SetPaymentStatusGuard(ctx context.Context, orderID uuid.UUID, from, to enums.PaymentStatus, failure *string) (bool, error) {
	updates := map[string]any{
		"payment_status":  to,
		"payment_failure": failure,
	}
	res := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ? AND payment_status = ?", orderID, from).
		Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *repository) SetPaymentIntent(ctx context.Context, orderID uuid.UUID, intentID string) error {
	return r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", orderID).
		Update("payment_intent_id", intentID).Error
}

func (r *repository) ListOrdersByUser(ctx context.Context, userID uuid.UUID, params pagination.Params) (*OrderList, error) {
	opts, limit, err := buildListQuery(params, nil)
	if err != nil {
		return nil, err
	}
	query := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Preload("Restaurant").
		Where("user_id = ?", userID)
	rows, err := r.list(query, opts)
	if err != nil {
		return nil, err
	}
	return buildOrderList(rows, limit), nil
}

func (r *repository) ListOrdersByRestaurant(ctx context.Context, restaurantID uuid.UUID, status *enums.OrderStatus, params pagination.Params) (*OrderList, error) {
	opts, limit, err := buildListQuery(params, status)
	if err != nil {
		return nil, err
	}
	query := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Preload("Restaurant").
		Where("restaurant_id = ?", restaurantID)
	if opts.status != nil {
		query = query.Where("status = ?", *opts.status)
	}
	rows, err := r.list(query, opts)
	if err != nil {
		return nil, err
	}
	return buildOrderList(rows, limit), nil
}

func (r *repository) ListDriverQueue(ctx context.Context, params pagination.Params) (*OrderList, error) {
	opts, limit, err := buildListQuery(params, nil)
	if err != nil {
		return nil, err
	}
	query := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Preload("Restaurant").
		Where("status IN ?", []enums.OrderStatus{enums.OrderStatusReady, enums.OrderStatusOutForDelivery})
	rows, err := r.list(query, opts)
	if err != nil {
		return nil, err
	}
	return buildOrderList(rows, limit), nil
}

func (r *repository) list(query *gorm.DB, opts listQuery) ([]models.Order, error) {
	if opts.cursor != nil {
		query = query.Where("(created_at < ?) OR (created_at = ? AND id < ?)", opts.cursor.CreatedAt, opts.cursor.CreatedAt, opts.cursor.ID)
	}
	query = query.Order("created_at DESC").Order("id DESC").Limit(opts.limit)

	var rows []models.Order
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func buildListQuery(params pagination.Params, status *enums.OrderStatus) (listQuery, int, error) {
	limit := pagination.NormalizeLimit(params.Limit)
	opts := listQuery{
		limit:  pagination.LimitWithBuffer(params.Limit),
		status: status,
	}
	if params.Cursor != "" {
		cursor, err := pagination.ParseCursor(params.Cursor)
		if err != nil {
			return listQuery{}, 0, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
		}
		opts.cursor = cursor
	}
	return opts, limit, nil
}

func buildOrderList(rows []models.Order, limit int) *OrderList {
	nextCursor := ""
	if len(rows) > limit {
		rows = rows[:limit]
		last := rows[limit-1]
		nextCursor = pagination.EncodeCursor(pagination.Cursor{
			CreatedAt: last.CreatedAt,
			ID:        last.ID,
		})
	}

	orders := make([]OrderSummary, len(rows))
	for i, row := range rows {
		orders[i] = toOrderSummary(row)
	}
	return &OrderList{Orders: orders, NextCursor: nextCursor}
}

func (r *repository) FindPendingPaymentBefore(ctx context.Context, cutoff time.Time) ([]models.Order, error) {
	var rows []models.Order
	err := r.db.WithContext(ctx).
		Where("status = ? AND payment_status = ? AND created_at < ?",
			enums.OrderStatusPending, enums.PaymentStatusPending, cutoff).
		Order("created_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
