package orders

import (
	"fmt"
	"testing"

	"github.com/campuseats/campuseats-backend/pkg/db/models"
	"github.com/campuseats/campuseats-backend/pkg/enums"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

func mustCreateTestRestaurant(t *testing.T, tx *gorm.DB) *models.Restaurant {
	t.Helper()
	restaurant := &models.Restaurant{
		ID:     uuid.New(),
		Name:   fmt.Sprintf("Repo Diner %s", uuid.NewString()[:8]),
		Campus: "north",
		IsOpen: true,
	}
	if err := tx.Create(restaurant).Error; err != nil {
		t.Fatalf("create restaurant: %v", err)
	}
	return restaurant
}

func mustCreateTestCheckoutGroup(t *testing.T, tx *gorm.DB, userID uuid.UUID) *models.CheckoutGroup {
	t.Helper()
	group := &models.CheckoutGroup{
		ID:             uuid.New(),
		UserID:         userID,
		CartID:         uuid.New(),
		IdempotencyKey: uuid.NewString(),
	}
	if err := tx.Create(group).Error; err != nil {
		t.Fatalf("create checkout group: %v", err)
	}
	return group
}

func mustCreateTestOrder(t *testing.T, tx *gorm.DB, groupID, userID, restaurantID uuid.UUID, status enums.OrderStatus) *models.Order {
	t.Helper()
	order := &models.Order{
		ID:              uuid.New(),
		CheckoutGroupID: groupID,
		UserID:          userID,
		RestaurantID:    restaurantID,
		TotalCents:      1200,
		Currency:        enums.CurrencyUSD,
		Status:          status,
		PaymentStatus:   enums.PaymentStatusPending,
	}
	if err := tx.Create(order).Error; err != nil {
		t.Fatalf("create order: %v", err)
	}
	return order
}
