package cart

import (
	"github.com/campuseats/campuseats-backend/pkg/db/models"
	"github.com/campuseats/campuseats-backend/pkg/enums"
	"github.com/campuseats/campuseats-backend/pkg/types"
	"github.com/google/uuid"
)

// CartLineDTO is one configured line in the cart view.
type CartLineDTO struct {
	ID             uuid.UUID             `json:"id"`
	MenuItemID     uuid.UUID             `json:"menu_item_id"`
	RestaurantID   uuid.UUID             `json:"restaurant_id"`
	Name           string                `json:"name"`
	VariantID      *uuid.UUID            `json:"variant_id,omitempty"`
	VariantName    *string               `json:"variant_name,omitempty"`
	Addons         types.AddonSelections `json:"addons,omitempty"`
	UnitPriceCents int                   `json:"unit_price_cents"`
	Quantity       int                   `json:"quantity"`
	LineTotalCents int                   `json:"line_total_cents"`
}

// CartDTO is the cart view returned to the client. An absent cart renders as
// an empty one.
type CartDTO struct {
	ID            *uuid.UUID       `json:"id,omitempty"`
	Status        enums.CartStatus `json:"status"`
	Items         []CartLineDTO    `json:"items"`
	SubtotalCents int              `json:"subtotal_cents"`
}

func emptyCartDTO() *CartDTO {
	return &CartDTO{
		Status: enums.CartStatusActive,
		Items:  []CartLineDTO{},
	}
}

func toCartDTO(cart *models.Cart) *CartDTO {
	dto := &CartDTO{
		ID:     &cart.ID,
		Status: cart.Status,
		Items:  make([]CartLineDTO, 0, len(cart.Items)),
	}
	for _, line := range cart.Items {
		lineTotal := line.UnitPriceCents * line.Quantity
		dto.Items = append(dto.Items, CartLineDTO{
			ID:             line.ID,
			MenuItemID:     line.MenuItemID,
			RestaurantID:   line.RestaurantID,
			Name:           line.Name,
			VariantID:      line.VariantID,
			VariantName:    line.VariantName,
			Addons:         line.Addons,
			UnitPriceCents: line.UnitPriceCents,
			Quantity:       line.Quantity,
			LineTotalCents: lineTotal,
		})
		dto.SubtotalCents += lineTotal
	}
	return dto
}
