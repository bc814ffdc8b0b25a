package orders

import (
	"context"
	"errors"
	"fmt"

	"github.com/campuseats/campuseats-backend/pkg/enums"
	pkgerrors "github.com/campuseats/campuseats-backend/pkg/errors"
	"github.com/campuseats/campuseats-backend/pkg/metrics"
	"github.com/campuseats/campuseats-backend/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Actor identifies who is asking. Role and restaurant scope come from the
// access token, never from the request body.
type Actor struct {
	UserID       uuid.UUID
	Role         enums.UserRole
	RestaurantID *uuid.UUID
}

// Service exposes order reads and the guarded status transition.
type Service interface {
	GetOrder(ctx context.Context, actor Actor, orderID uuid.UUID) (*OrderDetail, error)
	ListCustomerOrders(ctx context.Context, userID uuid.UUID, params pagination.Params) (*OrderList, error)
	ListRestaurantOrders(ctx context.Context, actor Actor, status *enums.OrderStatus, params pagination.Params) (*OrderList, error)
	ListDriverQueue(ctx context.Context, params pagination.Params) (*OrderList, error)
	UpdateStatus(ctx context.Context, actor Actor, orderID uuid.UUID, next enums.OrderStatus) (*OrderDetail, error)
}

type service struct {
	repo    Repository
	metrics *metrics.OrderMetrics
}

// NewService constructs an orders service instance.
func NewService(repo Repository, orderMetrics *metrics.OrderMetrics) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	return &service{repo: repo, metrics: orderMetrics}, nil
}

func (s *service) GetOrder(ctx context.Context, actor Actor, orderID uuid.UUID) (*OrderDetail, error) {
	if orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}

	order, err := s.repo.FindOrderDetail(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: lookup order")
	}
	if err := s.authorizeRead(actor, order.UserID, order.RestaurantID); err != nil {
		return nil, err
	}
	return toOrderDetail(order), nil
}

// authorizeRead allows the customer who placed the order, the admin of the
// restaurant fulfilling it, and drivers (who need the detail while out on a
// delivery). School admins see everything.
func (s *service) authorizeRead(actor Actor, ownerID, restaurantID uuid.UUID) error {
	switch actor.Role {
	case enums.RoleCustomer:
		if actor.UserID == ownerID {
			return nil
		}
	case enums.RoleRestaurantAdmin:
		if actor.RestaurantID != nil && *actor.RestaurantID == restaurantID {
			return nil
		}
	case enums.RoleDriver, enums.RoleSchoolAdmin:
		return nil
	}
	return pkgerrors.New(pkgerrors.CodeForbidden, "order does not belong to caller")
}

func (s *service) ListCustomerOrders(ctx context.Context, userID uuid.UUID, params pagination.Params) (*OrderList, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user identity missing")
	}
	list, err := s.repo.ListOrdersByUser(ctx, userID, params)
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list customer orders")
	}
	return list, nil
}

func (s *service) ListRestaurantOrders(ctx context.Context, actor Actor, status *enums.OrderStatus, params pagination.Params) (*OrderList, error) {
	if actor.Role != enums.RoleRestaurantAdmin || actor.RestaurantID == nil {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "restaurant scope required")
	}
	if status != nil && !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid status filter")
	}

	list, err := s.repo.ListOrdersByRestaurant(ctx, *actor.RestaurantID, status, params)
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list restaurant orders")
	}
	return list, nil
}

func (s *service) ListDriverQueue(ctx context.Context, params pagination.Params) (*OrderList, error) {
	list, err := s.repo.ListDriverQueue(ctx, params)
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list driver queue")
	}
	return list, nil
}

// driverTransitions lists the only moves a driver may make.
var driverTransitions = map[enums.OrderStatus]enums.OrderStatus{
	enums.OrderStatusReady:          enums.OrderStatusOutForDelivery,
	enums.OrderStatusOutForDelivery: enums.OrderStatusDelivered,
}

func (s *service) UpdateStatus(ctx context.Context, actor Actor, orderID uuid.UUID, next enums.OrderStatus) (*OrderDetail, error) {
	if orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}
	if !next.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid order status")
	}

	order, err := s.repo.FindOrderByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: lookup order")
	}

	switch actor.Role {
	case enums.RoleRestaurantAdmin:
		if actor.RestaurantID == nil || *actor.RestaurantID != order.RestaurantID {
			return nil, pkgerrors.New(pkgerrors.CodeForbidden, "order belongs to another restaurant")
		}
	case enums.RoleDriver:
		if driverTransitions[order.Status] != next {
			return nil, pkgerrors.New(pkgerrors.CodeForbidden, "drivers may only pick up ready orders and mark deliveries")
		}
	default:
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "role may not change order status")
	}

	if !enums.CanTransition(order.Status, next) {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("cannot move order from %s to %s", order.Status, next))
	}

	moved, err := s.repo.UpdateStatusGuard(ctx, orderID, order.Status, next)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update order status")
	}
	if !moved {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "order status changed concurrently")
	}
	s.metrics.IncTransition(next.String())

	detail, err := s.repo.FindOrderDetail(ctx, orderID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: reload order")
	}
	return toOrderDetail(detail), nil
}

