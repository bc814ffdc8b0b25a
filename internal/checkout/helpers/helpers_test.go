package helpers

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campuseats/campuseats-backend/pkg/db/models"
	"github.com/campuseats/campuseats-backend/pkg/enums"
	pkgerrors "github.com/campuseats/campuseats-backend/pkg/errors"
	"github.com/campuseats/campuseats-backend/pkg/types"
)

func TestGroupByRestaurant(t *testing.T) {
	t.Parallel()
	restaurantA := uuid.New()
	restaurantB := uuid.New()
	items := []models.CartItem{
		{ID: uuid.New(), RestaurantID: restaurantA},
		{ID: uuid.New(), RestaurantID: restaurantB},
		{ID: uuid.New(), RestaurantID: restaurantA},
	}

	grouped := GroupByRestaurant(items)
	require.Len(t, grouped, 2)
	assert.Len(t, grouped[restaurantA], 2)
	assert.Len(t, grouped[restaurantB], 1)

	seen := 0
	for _, group := range grouped {
		seen += len(group)
	}
	assert.Equal(t, len(items), seen, "every line must land in exactly one group")
}

func TestGroupByRestaurantEmptyCart(t *testing.T) {
	t.Parallel()
	assert.Empty(t, GroupByRestaurant(nil))
}

func TestComputeTotalsByRestaurant(t *testing.T) {
	t.Parallel()
	restaurantA := uuid.New()
	restaurantB := uuid.New()

	// Two items at $10 from one restaurant, one $5 item with a $1 addon
	// folded into its unit price from another.
	items := []models.CartItem{
		{RestaurantID: restaurantA, UnitPriceCents: 1000, Quantity: 2},
		{
			RestaurantID:   restaurantB,
			UnitPriceCents: 600,
			Quantity:       1,
			Addons:         types.AddonSelections{{ID: uuid.New(), Name: "extra sauce", PriceCents: 100}},
		},
	}

	byRestaurant := ComputeTotalsByRestaurant(items)
	require.Len(t, byRestaurant, 2)
	assert.Equal(t, 2000, byRestaurant[restaurantA].TotalCents)
	assert.Equal(t, 600, byRestaurant[restaurantB].TotalCents)

	single := ComputeRestaurantTotals(items[:1])
	assert.Equal(t, restaurantA, single.RestaurantID)
	assert.Equal(t, 2000, single.TotalCents)
	assert.Equal(t, 1, single.ItemCount)
}

func TestValidateCartForCheckout(t *testing.T) {
	t.Parallel()
	userID := uuid.New()
	cart := &models.Cart{
		ID:     uuid.New(),
		UserID: userID,
		Status: enums.CartStatusActive,
		Items:  []models.CartItem{{ID: uuid.New(), Quantity: 1}},
	}

	require.NoError(t, ValidateCartForCheckout(cart, userID))

	assertCode := func(err error, code pkgerrors.Code) {
		t.Helper()
		require.Error(t, err)
		typed := pkgerrors.As(err)
		require.NotNil(t, typed)
		assert.Equal(t, code, typed.Code())
	}

	assertCode(ValidateCartForCheckout(nil, userID), pkgerrors.CodeNotFound)
	assertCode(ValidateCartForCheckout(cart, uuid.New()), pkgerrors.CodeForbidden)

	cart.Status = enums.CartStatusConverted
	assertCode(ValidateCartForCheckout(cart, userID), pkgerrors.CodeStateConflict)

	cart.Status = enums.CartStatusActive
	cart.Items = nil
	assertCode(ValidateCartForCheckout(cart, userID), pkgerrors.CodeValidation)
}
