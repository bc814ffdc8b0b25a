package controllers

import (
	"net/http"
	"strings"

	"github.com/campuseats/campuseats-backend/api/middleware"
	"github.com/campuseats/campuseats-backend/api/responses"
	"github.com/campuseats/campuseats-backend/api/validators"
	"github.com/campuseats/campuseats-backend/internal/menu"
	pkgerrors "github.com/campuseats/campuseats-backend/pkg/errors"
	"github.com/campuseats/campuseats-backend/pkg/money"
	"github.com/campuseats/campuseats-backend/pkg/logger"
	"github.com/google/uuid"
)

// Prices arrive as display amounts ("12.50") and are converted to cents
// before anything below the controllers sees them.
type menuItemCreateRequest struct {
	Name        string  `json:"name" validate:"required,max=200"`
	Description *string `json:"description"`
	Price       string  `json:"price" validate:"required"`
	Category    string  `json:"category" validate:"required,max=100"`
	ImageURL    *string `json:"image_url"`
	Available   bool    `json:"available"`
}

type menuItemUpdateRequest struct {
	Name        *string `json:"name" validate:"omitempty,max=200"`
	Description *string `json:"description"`
	Price       *string `json:"price"`
	Category    *string `json:"category" validate:"omitempty,max=100"`
	ImageURL    *string `json:"image_url"`
	Available   *bool   `json:"available"`
}

type variantRequest struct {
	Name      string `json:"name" validate:"required,max=100"`
	Price     string `json:"price" validate:"required"`
	IsDefault bool   `json:"is_default"`
}

type addonRequest struct {
	Name     string `json:"name" validate:"required,max=100"`
	Price    string `json:"price" validate:"required"`
	Category string `json:"category" validate:"max=100"`
}

func parsePriceCents(amount string) (int, error) {
	cents, err := money.ParseCents(amount)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid price").
			WithDetails(map[string]any{"price": "must be a non-negative amount with at most two decimals"})
	}
	return cents, nil
}

// adminScope extracts the restaurant scope from the admin's token.
func adminScope(r *http.Request) (uuid.UUID, error) {
	identity, err := middleware.IdentityFromContext(r.Context())
	if err != nil {
		return uuid.Nil, err
	}
	if identity.RestaurantID == nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeForbidden, "restaurant scope required")
	}
	return *identity.RestaurantID, nil
}

// RestaurantList returns the restaurants visible to browsing customers.
func RestaurantList(svc menu.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "menu service unavailable"))
			return
		}
		campus := strings.TrimSpace(r.URL.Query().Get("campus"))
		restaurants, err := svc.ListRestaurants(r.Context(), campus)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, restaurants)
	}
}

// RestaurantMenu returns the menu items for one restaurant.
func RestaurantMenu(svc menu.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "menu service unavailable"))
			return
		}
		restaurantID, err := validators.ParseURLParamUUID(r, "restaurantId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		items, err := svc.GetRestaurantMenu(r.Context(), restaurantID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, items)
	}
}

// MenuItemDetail returns one item with its variants and addons.
func MenuItemDetail(svc menu.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "menu service unavailable"))
			return
		}
		itemID, err := validators.ParseURLParamUUID(r, "itemId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		detail, err := svc.GetItemDetail(r.Context(), itemID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, detail)
	}
}

// MenuItemCreate adds an item to the admin's restaurant.
func MenuItemCreate(svc menu.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "menu service unavailable"))
			return
		}
		restaurantID, err := adminScope(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload menuItemCreateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		priceCents, err := parsePriceCents(payload.Price)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		detail, err := svc.CreateItem(r.Context(), restaurantID, menu.CreateItemInput{
			Name:        payload.Name,
			Description: payload.Description,
			PriceCents:  priceCents,
			Category:    payload.Category,
			ImageURL:    payload.ImageURL,
			Available:   payload.Available,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, detail)
	}
}

// MenuItemUpdate applies a partial update to an item the admin owns.
func MenuItemUpdate(svc menu.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "menu service unavailable"))
			return
		}
		restaurantID, err := adminScope(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		itemID, err := validators.ParseURLParamUUID(r, "itemId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload menuItemUpdateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var priceCents *int
		if payload.Price != nil {
			cents, err := parsePriceCents(*payload.Price)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			priceCents = &cents
		}

		detail, err := svc.UpdateItem(r.Context(), restaurantID, itemID, menu.UpdateItemInput{
			Name:        payload.Name,
			Description: payload.Description,
			PriceCents:  priceCents,
			Category:    payload.Category,
			ImageURL:    payload.ImageURL,
			Available:   payload.Available,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, detail)
	}
}

// MenuItemDelete removes an item the admin owns.
func MenuItemDelete(svc menu.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "menu service unavailable"))
			return
		}
		restaurantID, err := adminScope(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		itemID, err := validators.ParseURLParamUUID(r, "itemId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.DeleteItem(r.Context(), restaurantID, itemID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, nil)
	}
}

// VariantAdd attaches a variant to an item the admin owns.
func VariantAdd(svc menu.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "menu service unavailable"))
			return
		}
		restaurantID, err := adminScope(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		itemID, err := validators.ParseURLParamUUID(r, "itemId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload variantRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		priceCents, err := parsePriceCents(payload.Price)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		detail, err := svc.AddVariant(r.Context(), restaurantID, itemID, menu.VariantInput{
			Name:       payload.Name,
			PriceCents: priceCents,
			IsDefault:  payload.IsDefault,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, detail)
	}
}

// VariantRemove detaches a variant from the admin's restaurant.
func VariantRemove(svc menu.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "menu service unavailable"))
			return
		}
		restaurantID, err := adminScope(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		variantID, err := validators.ParseURLParamUUID(r, "variantId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.RemoveVariant(r.Context(), restaurantID, variantID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, nil)
	}
}

// AddonAdd attaches an addon to an item the admin owns.
func AddonAdd(svc menu.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "menu service unavailable"))
			return
		}
		restaurantID, err := adminScope(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		itemID, err := validators.ParseURLParamUUID(r, "itemId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload addonRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		priceCents, err := parsePriceCents(payload.Price)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		detail, err := svc.AddAddon(r.Context(), restaurantID, itemID, menu.AddonInput{
			Name:       payload.Name,
			PriceCents: priceCents,
			Category:   payload.Category,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, detail)
	}
}

// AddonRemove detaches an addon from the admin's restaurant.
func AddonRemove(svc menu.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "menu service unavailable"))
			return
		}
		restaurantID, err := adminScope(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		addonID, err := validators.ParseURLParamUUID(r, "addonId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.RemoveAddon(r.Context(), restaurantID, addonID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, nil)
	}
}
