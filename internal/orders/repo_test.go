package orders

import (
	"context"
	"testing"
	"time"

	"github.com/campuseats/campuseats-backend/pkg/enums"
	"github.com/google/uuid"
)

func TestRepositoryUpdateStatusGuard(t *testing.T) {
	conn := openTestDB(t)
	tx := conn.Begin()
	if tx.Error != nil {
		t.Fatalf("begin tx: %v", tx.Error)
	}
	t.Cleanup(func() {
		_ = tx.Rollback()
	})

	repo := NewRepository(tx)
	ctx := context.Background()

	userID := uuid.New()
	restaurant := mustCreateTestRestaurant(t, tx)
	group := mustCreateTestCheckoutGroup(t, tx, userID)
	order := mustCreateTestOrder(t, tx, group.ID, userID, restaurant.ID, enums.OrderStatusPending)

	moved, err := repo.UpdateStatusGuard(ctx, order.ID, enums.OrderStatusPending, enums.OrderStatusPreparing)
	if err != nil {
		t.Fatalf("guarded update: %v", err)
	}
	if !moved {
		t.Fatal("expected the first transition to move the row")
	}

	// A second writer still holding the stale status must lose.
	moved, err = repo.UpdateStatusGuard(ctx, order.ID, enums.OrderStatusPending, enums.OrderStatusCancelled)
	if err != nil {
		t.Fatalf("stale guarded update: %v", err)
	}
	if moved {
		t.Fatal("expected the stale transition to be rejected")
	}

	fetched, err := repo.FindOrderByID(ctx, order.ID)
	if err != nil {
		t.Fatalf("reload order: %v", err)
	}
	if fetched.Status != enums.OrderStatusPreparing {
		t.Fatalf("expected status preparing, got %s", fetched.Status)
	}
}

func TestRepositorySetPaymentStatusGuard(t *testing.T) {
	conn := openTestDB(t)
	tx := conn.Begin()
	if tx.Error != nil {
		t.Fatalf("begin tx: %v", tx.Error)
	}
	t.Cleanup(func() {
		_ = tx.Rollback()
	})

	repo := NewRepository(tx)
	ctx := context.Background()

	userID := uuid.New()
	restaurant := mustCreateTestRestaurant(t, tx)
	group := mustCreateTestCheckoutGroup(t, tx, userID)
	order := mustCreateTestOrder(t, tx, group.ID, userID, restaurant.ID, enums.OrderStatusPending)

	if err := repo.SetPaymentStatus(ctx, order.ID, enums.PaymentStatusPaid, nil); err != nil {
		t.Fatalf("mark paid: %v", err)
	}

	// A sweeper still assuming pending must not clobber the paid record.
	reason := "payment window expired"
	marked, err := repo.SetPaymentStatusGuard(ctx, order.ID, enums.PaymentStatusPending, enums.PaymentStatusFailed, &reason)
	if err != nil {
		t.Fatalf("guarded payment write: %v", err)
	}
	if marked {
		t.Fatal("expected the stale payment write to be rejected")
	}

	fetched, err := repo.FindOrderByID(ctx, order.ID)
	if err != nil {
		t.Fatalf("reload order: %v", err)
	}
	if fetched.PaymentStatus != enums.PaymentStatusPaid {
		t.Fatalf("expected payment status paid, got %s", fetched.PaymentStatus)
	}
}

func TestRepositoryFindPendingPaymentBefore(t *testing.T) {
	conn := openTestDB(t)
	tx := conn.Begin()
	if tx.Error != nil {
		t.Fatalf("begin tx: %v", tx.Error)
	}
	t.Cleanup(func() {
		_ = tx.Rollback()
	})

	repo := NewRepository(tx)
	ctx := context.Background()

	userID := uuid.New()
	restaurant := mustCreateTestRestaurant(t, tx)
	group := mustCreateTestCheckoutGroup(t, tx, userID)

	stale := mustCreateTestOrder(t, tx, group.ID, userID, restaurant.ID, enums.OrderStatusPending)
	paid := mustCreateTestOrder(t, tx, group.ID, userID, restaurant.ID, enums.OrderStatusPending)
	if err := repo.SetPaymentStatus(ctx, paid.ID, enums.PaymentStatusPaid, nil); err != nil {
		t.Fatalf("mark paid: %v", err)
	}

	// Orders created in this transaction are newer than any past cutoff, so
	// query with a future one.
	rows, err := repo.FindPendingPaymentBefore(ctx, time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("find pending payment: %v", err)
	}

	var sawStale, sawPaid bool
	for _, row := range rows {
		if row.ID == stale.ID {
			sawStale = true
		}
		if row.ID == paid.ID {
			sawPaid = true
		}
	}
	if !sawStale {
		t.Fatal("expected the unpaid pending order in the sweep set")
	}
	if sawPaid {
		t.Fatal("paid order must not be swept")
	}
}
