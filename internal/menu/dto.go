package menu

import (
	"time"

	"github.com/campuseats/campuseats-backend/pkg/db/models"
	"github.com/google/uuid"
)

// RestaurantDTO is the public restaurant summary.
type RestaurantDTO struct {
	ID      uuid.UUID `json:"id"`
	Name    string    `json:"name"`
	Campus  string    `json:"campus"`
	Cuisine *string   `json:"cuisine,omitempty"`
	IsOpen  bool      `json:"is_open"`
}

// MenuItemSummary is one row of a restaurant's menu listing.
type MenuItemSummary struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	PriceCents  int       `json:"price_cents"`
	Category    string    `json:"category"`
	ImageURL    *string   `json:"image_url,omitempty"`
	Available   bool      `json:"available"`
}

// VariantDTO is a size/style option on an item detail.
type VariantDTO struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	PriceCents int       `json:"price_cents"`
	IsDefault  bool      `json:"is_default"`
}

// AddonDTO is an optional extra on an item detail.
type AddonDTO struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	PriceCents int       `json:"price_cents"`
	Category   string    `json:"category"`
}

// ItemDetailDTO is the full item view used by the cart-add flow.
type ItemDetailDTO struct {
	ID           uuid.UUID    `json:"id"`
	RestaurantID uuid.UUID    `json:"restaurant_id"`
	Name         string       `json:"name"`
	Description  *string      `json:"description,omitempty"`
	PriceCents   int          `json:"price_cents"`
	Category     string       `json:"category"`
	ImageURL     *string      `json:"image_url,omitempty"`
	Available    bool         `json:"available"`
	Variants     []VariantDTO `json:"variants"`
	Addons       []AddonDTO   `json:"addons"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

func toRestaurantDTO(r models.Restaurant) RestaurantDTO {
	return RestaurantDTO{
		ID:      r.ID,
		Name:    r.Name,
		Campus:  r.Campus,
		Cuisine: r.Cuisine,
		IsOpen:  r.IsOpen,
	}
}

func toItemSummary(item models.MenuItem) MenuItemSummary {
	return MenuItemSummary{
		ID:          item.ID,
		Name:        item.Name,
		Description: item.Description,
		PriceCents:  item.PriceCents,
		Category:    item.Category,
		ImageURL:    item.ImageURL,
		Available:   item.Available,
	}
}

func toItemDetail(item *models.MenuItem) *ItemDetailDTO {
	detail := &ItemDetailDTO{
		ID:           item.ID,
		RestaurantID: item.RestaurantID,
		Name:         item.Name,
		Description:  item.Description,
		PriceCents:   item.PriceCents,
		Category:     item.Category,
		ImageURL:     item.ImageURL,
		Available:    item.Available,
		Variants:     make([]VariantDTO, 0, len(item.Variants)),
		Addons:       make([]AddonDTO, 0, len(item.Addons)),
		UpdatedAt:    item.UpdatedAt,
	}
	for _, v := range item.Variants {
		detail.Variants = append(detail.Variants, VariantDTO{
			ID:         v.ID,
			Name:       v.Name,
			PriceCents: v.PriceCents,
			IsDefault:  v.IsDefault,
		})
	}
	for _, a := range item.Addons {
		detail.Addons = append(detail.Addons, AddonDTO{
			ID:         a.ID,
			Name:       a.Name,
			PriceCents: a.PriceCents,
			Category:   a.Category,
		})
	}
	return detail
}
