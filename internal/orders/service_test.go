package orders

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/campuseats/campuseats-backend/pkg/db/models"
	"github.com/campuseats/campuseats-backend/pkg/enums"
	pkgerrors "github.com/campuseats/campuseats-backend/pkg/errors"
	"github.com/campuseats/campuseats-backend/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type stubOrdersRepo struct {
	orders    map[uuid.UUID]*models.Order
	groups    map[uuid.UUID]*models.CheckoutGroup
	guardMiss bool
}

func newStubOrdersRepo() *stubOrdersRepo {
	return &stubOrdersRepo{
		orders: map[uuid.UUID]*models.Order{},
		groups: map[uuid.UUID]*models.CheckoutGroup{},
	}
}

func (s *stubOrdersRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubOrdersRepo) CreateCheckoutGroup(ctx context.Context, group *models.CheckoutGroup) (*models.CheckoutGroup, error) {
	if group.ID == uuid.Nil {
		group.ID = uuid.New()
	}
	s.groups[group.ID] = group
	return group, nil
}

func (s *stubOrdersRepo) FindCheckoutGroupByKey(ctx context.Context, idempotencyKey string) (*models.CheckoutGroup, error) {
	for _, group := range s.groups {
		if group.IdempotencyKey == idempotencyKey {
			return group, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubOrdersRepo) CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error) {
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	s.orders[order.ID] = order
	return order, nil
}

func (s *stubOrdersRepo) CreateOrderItems(ctx context.Context, items []models.OrderItem) error {
	return nil
}

func (s *stubOrdersRepo) FindOrderByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	if order, ok := s.orders[id]; ok {
		copied := *order
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubOrdersRepo) FindOrderDetail(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	return s.FindOrderByID(ctx, id)
}

func (s *stubOrdersRepo) UpdateOrder(ctx context.Context, orderID uuid.UUID, updates map[string]any) error {
	return nil
}

func (s *stubOrdersRepo) UpdateStatusGuard(ctx context.Context, orderID uuid.UUID, from, to enums.OrderStatus) (bool, error) {
	if s.guardMiss {
		return false, nil
	}
	order, ok := s.orders[orderID]
	if !ok || order.Status != from {
		return false, nil
	}
	order.Status = to
	return true, nil
}

func (s *stubOrdersRepo) SetPaymentStatus(ctx context.Context, orderID uuid.UUID, status enums.PaymentStatus, failure *string) error {
	order, ok := s.orders[orderID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	order.PaymentStatus = status
	order.PaymentFailure = failure
	return nil
}

func (s *stubOrdersRepo) SetPaymentStatusGuard(ctx context.Context, orderID uuid.UUID, from, to enums.PaymentStatus, failure *string) (bool, error) {
	order, ok := s.orders[orderID]
	if !ok || order.PaymentStatus != from {
		return false, nil
	}
	order.PaymentStatus = to
	order.PaymentFailure = failure
	return true, nil
}

func (s *stubOrdersRepo) SetPaymentIntent(ctx context.Context, orderID uuid.UUID, intentID string) error {
	order, ok := s.orders[orderID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	order.PaymentIntentID = &intentID
	return nil
}

func (s *stubOrdersRepo) sorted(filter func(*models.Order) bool) []models.Order {
	var rows []models.Order
	for _, order := range s.orders {
		if filter(order) {
			rows = append(rows, *order)
		}
	}
	sort.Slice(rows, func(i, j int) bool {
		return rows[i].CreatedAt.After(rows[j].CreatedAt)
	})
	return rows
}

func applyListQuery(rows []models.Order, opts listQuery) []models.Order {
	if opts.cursor != nil {
		var filtered []models.Order
		for _, row := range rows {
			if row.CreatedAt.Before(opts.cursor.CreatedAt) {
				filtered = append(filtered, row)
			}
		}
		rows = filtered
	}
	if opts.limit > 0 && len(rows) > opts.limit {
		rows = rows[:opts.limit]
	}
	return rows
}

func (s *stubOrdersRepo) ListOrdersByUser(ctx context.Context, userID uuid.UUID, params pagination.Params) (*OrderList, error) {
	opts, limit, err := buildListQuery(params, nil)
	if err != nil {
		return nil, err
	}
	rows := s.sorted(func(o *models.Order) bool { return o.UserID == userID })
	return buildOrderList(applyListQuery(rows, opts), limit), nil
}

func (s *stubOrdersRepo) ListOrdersByRestaurant(ctx context.Context, restaurantID uuid.UUID, status *enums.OrderStatus, params pagination.Params) (*OrderList, error) {
	opts, limit, err := buildListQuery(params, status)
	if err != nil {
		return nil, err
	}
	rows := s.sorted(func(o *models.Order) bool {
		if o.RestaurantID != restaurantID {
			return false
		}
		return opts.status == nil || o.Status == *opts.status
	})
	return buildOrderList(applyListQuery(rows, opts), limit), nil
}

func (s *stubOrdersRepo) ListDriverQueue(ctx context.Context, params pagination.Params) (*OrderList, error) {
	opts, limit, err := buildListQuery(params, nil)
	if err != nil {
		return nil, err
	}
	rows := s.sorted(func(o *models.Order) bool {
		return o.Status == enums.OrderStatusReady || o.Status == enums.OrderStatusOutForDelivery
	})
	return buildOrderList(applyListQuery(rows, opts), limit), nil
}

func (s *stubOrdersRepo) FindPendingPaymentBefore(ctx context.Context, cutoff time.Time) ([]models.Order, error) {
	var rows []models.Order
	for _, order := range s.orders {
		if order.Status == enums.OrderStatusPending && order.PaymentStatus == enums.PaymentStatusPending && order.CreatedAt.Before(cutoff) {
			rows = append(rows, *order)
		}
	}
	return rows, nil
}

func (s *stubOrdersRepo) seedOrder(userID, restaurantID uuid.UUID, status enums.OrderStatus, createdAt time.Time) *models.Order {
	order := &models.Order{
		ID:            uuid.New(),
		UserID:        userID,
		RestaurantID:  restaurantID,
		TotalCents:    1500,
		Currency:      enums.CurrencyUSD,
		Status:        status,
		PaymentStatus: enums.PaymentStatusPending,
		CreatedAt:     createdAt,
	}
	s.orders[order.ID] = order
	return order
}

func newTestService(t *testing.T, repo Repository) Service {
	t.Helper()
	svc, err := NewService(repo, nil)
	if err != nil {
		t.Fatalf("NewService returned error: %v", err)
	}
	return svc
}

func adminActor(restaurantID uuid.UUID) Actor {
	return Actor{UserID: uuid.New(), Role: enums.RoleRestaurantAdmin, RestaurantID: &restaurantID}
}

func TestUpdateStatusAdminAdvances(t *testing.T) {
	repo := newStubOrdersRepo()
	restaurantID := uuid.New()
	order := repo.seedOrder(uuid.New(), restaurantID, enums.OrderStatusPending, time.Now())
	svc := newTestService(t, repo)

	detail, err := svc.UpdateStatus(context.Background(), adminActor(restaurantID), order.ID, enums.OrderStatusPreparing)
	if err != nil {
		t.Fatalf("UpdateStatus returned error: %v", err)
	}
	if detail.Status != enums.OrderStatusPreparing {
		t.Fatalf("expected status preparing, got %s", detail.Status)
	}
	if detail.ProgressStep != 2 || detail.ProgressTotal != 5 {
		t.Fatalf("expected progress 2/5, got %d/%d", detail.ProgressStep, detail.ProgressTotal)
	}
}

func TestUpdateStatusRejectsSkippedState(t *testing.T) {
	repo := newStubOrdersRepo()
	restaurantID := uuid.New()
	order := repo.seedOrder(uuid.New(), restaurantID, enums.OrderStatusPending, time.Now())
	svc := newTestService(t, repo)

	_, err := svc.UpdateStatus(context.Background(), adminActor(restaurantID), order.ID, enums.OrderStatusReady)
	if appErr := pkgerrors.As(err); appErr == nil || appErr.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict, got %v", err)
	}
	if repo.orders[order.ID].Status != enums.OrderStatusPending {
		t.Fatalf("order must not move on a rejected transition")
	}
}

func TestUpdateStatusTerminalOrderCannotMove(t *testing.T) {
	repo := newStubOrdersRepo()
	restaurantID := uuid.New()
	order := repo.seedOrder(uuid.New(), restaurantID, enums.OrderStatusDelivered, time.Now())
	svc := newTestService(t, repo)

	_, err := svc.UpdateStatus(context.Background(), adminActor(restaurantID), order.ID, enums.OrderStatusCancelled)
	if appErr := pkgerrors.As(err); appErr == nil || appErr.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict for terminal order, got %v", err)
	}
}

func TestUpdateStatusAdminCancelsNonTerminal(t *testing.T) {
	repo := newStubOrdersRepo()
	restaurantID := uuid.New()
	order := repo.seedOrder(uuid.New(), restaurantID, enums.OrderStatusPreparing, time.Now())
	svc := newTestService(t, repo)

	detail, err := svc.UpdateStatus(context.Background(), adminActor(restaurantID), order.ID, enums.OrderStatusCancelled)
	if err != nil {
		t.Fatalf("UpdateStatus returned error: %v", err)
	}
	if detail.Status != enums.OrderStatusCancelled {
		t.Fatalf("expected status cancelled, got %s", detail.Status)
	}
}

func TestUpdateStatusDriverScope(t *testing.T) {
	repo := newStubOrdersRepo()
	restaurantID := uuid.New()
	driver := Actor{UserID: uuid.New(), Role: enums.RoleDriver}
	svc := newTestService(t, repo)
	ctx := context.Background()

	pending := repo.seedOrder(uuid.New(), restaurantID, enums.OrderStatusPending, time.Now())
	_, err := svc.UpdateStatus(ctx, driver, pending.ID, enums.OrderStatusPreparing)
	if appErr := pkgerrors.As(err); appErr == nil || appErr.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden for driver accepting orders, got %v", err)
	}

	ready := repo.seedOrder(uuid.New(), restaurantID, enums.OrderStatusReady, time.Now())
	detail, err := svc.UpdateStatus(ctx, driver, ready.ID, enums.OrderStatusOutForDelivery)
	if err != nil {
		t.Fatalf("driver pickup failed: %v", err)
	}
	if detail.Status != enums.OrderStatusOutForDelivery {
		t.Fatalf("expected out_for_delivery, got %s", detail.Status)
	}

	detail, err = svc.UpdateStatus(ctx, driver, ready.ID, enums.OrderStatusDelivered)
	if err != nil {
		t.Fatalf("driver delivery failed: %v", err)
	}
	if detail.Status != enums.OrderStatusDelivered {
		t.Fatalf("expected delivered, got %s", detail.Status)
	}
}

func TestUpdateStatusForeignRestaurantForbidden(t *testing.T) {
	repo := newStubOrdersRepo()
	order := repo.seedOrder(uuid.New(), uuid.New(), enums.OrderStatusPending, time.Now())
	svc := newTestService(t, repo)

	_, err := svc.UpdateStatus(context.Background(), adminActor(uuid.New()), order.ID, enums.OrderStatusPreparing)
	if appErr := pkgerrors.As(err); appErr == nil || appErr.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden for foreign restaurant, got %v", err)
	}
}

func TestUpdateStatusCustomerForbidden(t *testing.T) {
	repo := newStubOrdersRepo()
	userID := uuid.New()
	order := repo.seedOrder(userID, uuid.New(), enums.OrderStatusPending, time.Now())
	svc := newTestService(t, repo)

	customer := Actor{UserID: userID, Role: enums.RoleCustomer}
	_, err := svc.UpdateStatus(context.Background(), customer, order.ID, enums.OrderStatusCancelled)
	if appErr := pkgerrors.As(err); appErr == nil || appErr.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden for customer, got %v", err)
	}
}

func TestUpdateStatusConcurrentWriterLoses(t *testing.T) {
	repo := newStubOrdersRepo()
	restaurantID := uuid.New()
	order := repo.seedOrder(uuid.New(), restaurantID, enums.OrderStatusPending, time.Now())
	repo.guardMiss = true
	svc := newTestService(t, repo)

	_, err := svc.UpdateStatus(context.Background(), adminActor(restaurantID), order.ID, enums.OrderStatusPreparing)
	if appErr := pkgerrors.As(err); appErr == nil || appErr.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict when the guarded update misses, got %v", err)
	}
}

func TestGetOrderOwnership(t *testing.T) {
	repo := newStubOrdersRepo()
	ownerID := uuid.New()
	order := repo.seedOrder(ownerID, uuid.New(), enums.OrderStatusPending, time.Now())
	svc := newTestService(t, repo)
	ctx := context.Background()

	owner := Actor{UserID: ownerID, Role: enums.RoleCustomer}
	detail, err := svc.GetOrder(ctx, owner, order.ID)
	if err != nil {
		t.Fatalf("owner read failed: %v", err)
	}
	if detail.ID != order.ID {
		t.Fatalf("expected order %s, got %s", order.ID, detail.ID)
	}
	if detail.TotalCents != 1500 || detail.Total != "15.00" {
		t.Fatalf("expected 1500 cents rendered as 15.00, got %d / %s", detail.TotalCents, detail.Total)
	}

	stranger := Actor{UserID: uuid.New(), Role: enums.RoleCustomer}
	_, err = svc.GetOrder(ctx, stranger, order.ID)
	if appErr := pkgerrors.As(err); appErr == nil || appErr.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden for another customer, got %v", err)
	}

	_, err = svc.GetOrder(ctx, owner, uuid.New())
	if appErr := pkgerrors.As(err); appErr == nil || appErr.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestListCustomerOrdersPaginates(t *testing.T) {
	repo := newStubOrdersRepo()
	userID := uuid.New()
	base := time.Now()
	for i := 0; i < 3; i++ {
		repo.seedOrder(userID, uuid.New(), enums.OrderStatusPending, base.Add(-time.Duration(i)*time.Minute))
	}
	svc := newTestService(t, repo)
	ctx := context.Background()

	page, err := svc.ListCustomerOrders(ctx, userID, pagination.Params{Limit: 2})
	if err != nil {
		t.Fatalf("list orders failed: %v", err)
	}
	if len(page.Orders) != 2 {
		t.Fatalf("expected 2 orders, got %d", len(page.Orders))
	}
	if page.NextCursor == "" {
		t.Fatal("expected a next cursor with a third row pending")
	}
	if page.Orders[0].CreatedAt.Before(page.Orders[1].CreatedAt) {
		t.Fatal("orders must be newest first")
	}

	rest, err := svc.ListCustomerOrders(ctx, userID, pagination.Params{Limit: 2, Cursor: page.NextCursor})
	if err != nil {
		t.Fatalf("second page failed: %v", err)
	}
	if len(rest.Orders) != 1 {
		t.Fatalf("expected 1 order on the second page, got %d", len(rest.Orders))
	}
	if rest.NextCursor != "" {
		t.Fatalf("expected no further cursor, got %q", rest.NextCursor)
	}
}

func TestListRestaurantOrdersFiltersByStatus(t *testing.T) {
	repo := newStubOrdersRepo()
	restaurantID := uuid.New()
	repo.seedOrder(uuid.New(), restaurantID, enums.OrderStatusPending, time.Now())
	ready := repo.seedOrder(uuid.New(), restaurantID, enums.OrderStatusReady, time.Now().Add(-time.Minute))
	repo.seedOrder(uuid.New(), uuid.New(), enums.OrderStatusReady, time.Now())
	svc := newTestService(t, repo)

	status := enums.OrderStatusReady
	page, err := svc.ListRestaurantOrders(context.Background(), adminActor(restaurantID), &status, pagination.Params{})
	if err != nil {
		t.Fatalf("list restaurant orders failed: %v", err)
	}
	if len(page.Orders) != 1 {
		t.Fatalf("expected 1 ready order, got %d", len(page.Orders))
	}
	if page.Orders[0].ID != ready.ID {
		t.Fatalf("expected order %s, got %s", ready.ID, page.Orders[0].ID)
	}
}

func TestListDriverQueueOnlyActionableStates(t *testing.T) {
	repo := newStubOrdersRepo()
	repo.seedOrder(uuid.New(), uuid.New(), enums.OrderStatusPending, time.Now())
	repo.seedOrder(uuid.New(), uuid.New(), enums.OrderStatusReady, time.Now())
	repo.seedOrder(uuid.New(), uuid.New(), enums.OrderStatusOutForDelivery, time.Now())
	repo.seedOrder(uuid.New(), uuid.New(), enums.OrderStatusDelivered, time.Now())
	svc := newTestService(t, repo)

	page, err := svc.ListDriverQueue(context.Background(), pagination.Params{})
	if err != nil {
		t.Fatalf("driver queue failed: %v", err)
	}
	if len(page.Orders) != 2 {
		t.Fatalf("expected 2 queue orders, got %d", len(page.Orders))
	}
	for _, order := range page.Orders {
		if order.Status != enums.OrderStatusReady && order.Status != enums.OrderStatusOutForDelivery {
			t.Fatalf("unexpected status %s in driver queue", order.Status)
		}
	}
}
