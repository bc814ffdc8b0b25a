package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/campuseats/campuseats-backend/pkg/db/models"
	"github.com/campuseats/campuseats-backend/pkg/enums"
	pkgerrors "github.com/campuseats/campuseats-backend/pkg/errors"
	"github.com/campuseats/campuseats-backend/pkg/types"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type menuLoader interface {
	FindMenuItemDetail(ctx context.Context, id uuid.UUID) (*models.MenuItem, error)
}

// Service exposes cart assembly operations. It never talks to the payment
// gateway; checkout owns that boundary.
type Service interface {
	AddLine(ctx context.Context, userID uuid.UUID, input AddLineInput) (*CartDTO, error)
	UpdateQuantity(ctx context.Context, userID, lineID uuid.UUID, quantity int) (*CartDTO, error)
	RemoveLine(ctx context.Context, userID, lineID uuid.UUID) (*CartDTO, error)
	Clear(ctx context.Context, userID uuid.UUID) error
	GetActiveCart(ctx context.Context, userID uuid.UUID) (*CartDTO, error)
}

// AddLineInput captures one add-to-cart request.
type AddLineInput struct {
	MenuItemID uuid.UUID
	VariantID  *uuid.UUID
	AddonIDs   []uuid.UUID
	Quantity   int
}

type service struct {
	repo CartRepository
	tx   txRunner
	menu menuLoader
}

// NewService builds a cart service backed by the provided stack.
func NewService(repo CartRepository, tx txRunner, menu menuLoader) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if menu == nil {
		return nil, fmt.Errorf("menu loader required")
	}
	return &service{repo: repo, tx: tx, menu: menu}, nil
}

// AddLine resolves the effective unit price from the live menu, then merges
// the configured line into the user's active cart. Lines with the same item,
// variant, and addon set merge by incrementing quantity.
func (s *service) AddLine(ctx context.Context, userID uuid.UUID, input AddLineInput) (*CartDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if input.MenuItemID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "menu item id required")
	}
	if input.Quantity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}

	item, err := s.menu.FindMenuItemDetail(ctx, input.MenuItemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "menu item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load menu item")
	}
	if !item.Available {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "menu item is not available")
	}

	unitPrice := item.PriceCents
	var variantID *uuid.UUID
	var variantName *string
	if input.VariantID != nil {
		variant := findVariant(item, *input.VariantID)
		if variant == nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "variant does not belong to menu item")
		}
		unitPrice = variant.PriceCents
		id := variant.ID
		name := variant.Name
		variantID = &id
		variantName = &name
	}

	addons, err := resolveAddons(item, input.AddonIDs)
	if err != nil {
		return nil, err
	}
	unitPrice += addons.TotalCents()

	lineKey := BuildLineKey(item.ID, variantID, addons.SortedIDs())

	var cartID uuid.UUID
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		active, err := txRepo.FindActiveCartByUser(ctx, userID)
		if err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load active cart")
			}
			active, err = txRepo.CreateCart(ctx, &models.Cart{
				UserID: userID,
				Status: enums.CartStatusActive,
			})
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: create cart")
			}
		}
		cartID = active.ID

		existing, err := txRepo.FindLineByKey(ctx, active.ID, lineKey)
		if err == nil {
			if err := txRepo.UpdateLineQuantity(ctx, existing.ID, existing.Quantity+input.Quantity); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: merge cart line")
			}
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: find cart line")
		}

		line := &models.CartItem{
			CartID:         active.ID,
			MenuItemID:     item.ID,
			RestaurantID:   item.RestaurantID,
			Name:           item.Name,
			UnitPriceCents: unitPrice,
			Quantity:       input.Quantity,
			VariantID:      variantID,
			VariantName:    variantName,
			Addons:         addons,
			LineKey:        lineKey,
		}
		if _, err := txRepo.CreateLine(ctx, line); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert cart line")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.cartByID(ctx, cartID)
}

// UpdateQuantity sets the quantity on an owned line. A quantity of zero or
// less removes the line.
func (s *service) UpdateQuantity(ctx context.Context, userID, lineID uuid.UUID, quantity int) (*CartDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if lineID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "line id required")
	}

	cart, line, err := s.loadOwnedLine(ctx, userID, lineID)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		return s.GetActiveCart(ctx, userID)
	}

	if quantity <= 0 {
		if err := s.repo.DeleteLine(ctx, line.ID); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete cart line")
		}
	} else if err := s.repo.UpdateLineQuantity(ctx, line.ID, quantity); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update cart line")
	}
	return s.cartByID(ctx, cart.ID)
}

// RemoveLine deletes an owned line. Removing an absent line is a no-op.
func (s *service) RemoveLine(ctx context.Context, userID, lineID uuid.UUID) (*CartDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if lineID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "line id required")
	}

	cart, line, err := s.loadOwnedLine(ctx, userID, lineID)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		return s.GetActiveCart(ctx, userID)
	}
	if err := s.repo.DeleteLine(ctx, line.ID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete cart line")
	}
	return s.cartByID(ctx, cart.ID)
}

// Clear removes every line from the user's active cart.
func (s *service) Clear(ctx context.Context, userID uuid.UUID) error {
	if userID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	active, err := s.repo.FindActiveCartByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load active cart")
	}
	if err := s.repo.DeleteLinesByCart(ctx, active.ID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: clear cart")
	}
	return nil
}

// GetActiveCart returns the user's active cart, rendered empty when none
// exists yet.
func (s *service) GetActiveCart(ctx context.Context, userID uuid.UUID) (*CartDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	active, err := s.repo.FindActiveCartByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return emptyCartDTO(), nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load active cart")
	}
	return toCartDTO(active), nil
}

func (s *service) cartByID(ctx context.Context, cartID uuid.UUID) (*CartDTO, error) {
	cart, err := s.repo.FindCartByID(ctx, cartID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: reload cart")
	}
	return toCartDTO(cart), nil
}

// loadOwnedLine resolves the user's active cart and the requested line. A nil
// cart return means the line does not exist in the user's cart (callers treat
// removal of an absent line as a no-op).
func (s *service) loadOwnedLine(ctx context.Context, userID, lineID uuid.UUID) (*models.Cart, *models.CartItem, error) {
	active, err := s.repo.FindActiveCartByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, nil
		}
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load active cart")
	}
	line, err := s.repo.FindLineByID(ctx, lineID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, nil
		}
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load cart line")
	}
	if line.CartID != active.ID {
		return nil, nil, pkgerrors.New(pkgerrors.CodeForbidden, "line does not belong to cart")
	}
	return active, line, nil
}

func findVariant(item *models.MenuItem, variantID uuid.UUID) *models.MenuItemVariant {
	for i := range item.Variants {
		if item.Variants[i].ID == variantID {
			return &item.Variants[i]
		}
	}
	return nil
}

func resolveAddons(item *models.MenuItem, addonIDs []uuid.UUID) (types.AddonSelections, error) {
	if len(addonIDs) == 0 {
		return nil, nil
	}
	byID := make(map[uuid.UUID]*models.MenuItemAddon, len(item.Addons))
	for i := range item.Addons {
		byID[item.Addons[i].ID] = &item.Addons[i]
	}
	seen := map[uuid.UUID]struct{}{}
	selections := make(types.AddonSelections, 0, len(addonIDs))
	for _, id := range addonIDs {
		if _, dup := seen[id]; dup {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "duplicate addon selection")
		}
		seen[id] = struct{}{}
		addon, ok := byID[id]
		if !ok {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "addon does not belong to menu item")
		}
		selections = append(selections, types.AddonSelection{
			ID:         addon.ID,
			Name:       addon.Name,
			PriceCents: addon.PriceCents,
		})
	}
	return selections, nil
}
