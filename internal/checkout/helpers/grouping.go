package helpers

import (
	"github.com/campuseats/campuseats-backend/pkg/db/models"
	"github.com/google/uuid"
)

// GroupByRestaurant splits the cart lines by the restaurant fulfilling them.
// An empty cart yields an empty map; every line lands in exactly one group.
func GroupByRestaurant(items []models.CartItem) map[uuid.UUID][]models.CartItem {
	grouped := make(map[uuid.UUID][]models.CartItem, len(items))
	for _, item := range items {
		grouped[item.RestaurantID] = append(grouped[item.RestaurantID], item)
	}
	return grouped
}

// RestaurantTotals captures the pre-computed order total for one restaurant's
// share of a cart.
type RestaurantTotals struct {
	RestaurantID uuid.UUID
	TotalCents   int
	ItemCount    int
}

// ComputeRestaurantTotals sums the resolved line prices for one restaurant's
// items. Unit prices already include the variant override and addon charges.
func ComputeRestaurantTotals(items []models.CartItem) RestaurantTotals {
	var totals RestaurantTotals
	if len(items) == 0 {
		return totals
	}
	totals.RestaurantID = items[0].RestaurantID
	for _, item := range items {
		totals.TotalCents += item.UnitPriceCents * item.Quantity
		totals.ItemCount++
	}
	return totals
}

// ComputeTotalsByRestaurant returns pre-computed totals keyed by restaurant.
func ComputeTotalsByRestaurant(items []models.CartItem) map[uuid.UUID]RestaurantTotals {
	results := make(map[uuid.UUID]RestaurantTotals)
	for _, item := range items {
		totals := results[item.RestaurantID]
		if totals.ItemCount == 0 {
			totals.RestaurantID = item.RestaurantID
		}
		totals.TotalCents += item.UnitPriceCents * item.Quantity
		totals.ItemCount++
		results[item.RestaurantID] = totals
	}
	return results
}
