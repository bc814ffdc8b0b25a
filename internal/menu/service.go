package menu

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/campuseats/campuseats-backend/pkg/db/models"
	pkgerrors "github.com/campuseats/campuseats-backend/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service exposes menu reads plus restaurant admin catalog management.
type Service interface {
	ListRestaurants(ctx context.Context, campus string) ([]RestaurantDTO, error)
	GetRestaurantMenu(ctx context.Context, restaurantID uuid.UUID) ([]MenuItemSummary, error)
	GetItemDetail(ctx context.Context, itemID uuid.UUID) (*ItemDetailDTO, error)
	CreateItem(ctx context.Context, adminRestaurantID uuid.UUID, input CreateItemInput) (*ItemDetailDTO, error)
	UpdateItem(ctx context.Context, adminRestaurantID, itemID uuid.UUID, input UpdateItemInput) (*ItemDetailDTO, error)
	DeleteItem(ctx context.Context, adminRestaurantID, itemID uuid.UUID) error
	AddVariant(ctx context.Context, adminRestaurantID, itemID uuid.UUID, input VariantInput) (*ItemDetailDTO, error)
	RemoveVariant(ctx context.Context, adminRestaurantID, variantID uuid.UUID) error
	AddAddon(ctx context.Context, adminRestaurantID, itemID uuid.UUID, input AddonInput) (*ItemDetailDTO, error)
	RemoveAddon(ctx context.Context, adminRestaurantID, addonID uuid.UUID) error
}

// CreateItemInput holds the validated payload to create a menu item.
type CreateItemInput struct {
	Name        string
	Description *string
	PriceCents  int
	Category    string
	ImageURL    *string
	Available   bool
}

// UpdateItemInput holds optional mutation values for a menu item.
type UpdateItemInput struct {
	Name        *string
	Description *string
	PriceCents  *int
	Category    *string
	ImageURL    *string
	Available   *bool
}

// VariantInput defines a size/style option to attach to an item.
type VariantInput struct {
	Name       string
	PriceCents int
	IsDefault  bool
}

// AddonInput defines an optional extra to attach to an item.
type AddonInput struct {
	Name       string
	PriceCents int
	Category   string
}

type service struct {
	repo Repository
	tx   txRunner
}

// NewService constructs a menu service instance.
func NewService(repo Repository, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("menu repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, tx: tx}, nil
}

func (s *service) ListRestaurants(ctx context.Context, campus string) ([]RestaurantDTO, error) {
	restaurants, err := s.repo.ListRestaurants(ctx, strings.TrimSpace(campus))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list restaurants")
	}
	out := make([]RestaurantDTO, 0, len(restaurants))
	for _, r := range restaurants {
		out = append(out, toRestaurantDTO(r))
	}
	return out, nil
}

func (s *service) GetRestaurantMenu(ctx context.Context, restaurantID uuid.UUID) ([]MenuItemSummary, error) {
	if restaurantID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "restaurant id required")
	}
	if _, err := s.repo.FindRestaurantByID(ctx, restaurantID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "restaurant not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load restaurant")
	}
	items, err := s.repo.ListMenuItems(ctx, restaurantID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list menu items")
	}
	out := make([]MenuItemSummary, 0, len(items))
	for _, item := range items {
		out = append(out, toItemSummary(item))
	}
	return out, nil
}

func (s *service) GetItemDetail(ctx context.Context, itemID uuid.UUID) (*ItemDetailDTO, error) {
	if itemID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "menu item id required")
	}
	item, err := s.repo.FindMenuItemDetail(ctx, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "menu item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load menu item")
	}
	return toItemDetail(item), nil
}

func (s *service) CreateItem(ctx context.Context, adminRestaurantID uuid.UUID, input CreateItemInput) (*ItemDetailDTO, error) {
	if adminRestaurantID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "restaurant context missing")
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item name required")
	}
	if input.PriceCents < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must not be negative")
	}
	category := strings.TrimSpace(input.Category)
	if category == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "category required")
	}

	item := &models.MenuItem{
		RestaurantID: adminRestaurantID,
		Name:         name,
		Description:  input.Description,
		PriceCents:   input.PriceCents,
		Category:     category,
		ImageURL:     input.ImageURL,
		Available:    input.Available,
	}
	created, err := s.repo.CreateMenuItem(ctx, item)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert menu item")
	}
	return s.GetItemDetail(ctx, created.ID)
}

func (s *service) UpdateItem(ctx context.Context, adminRestaurantID, itemID uuid.UUID, input UpdateItemInput) (*ItemDetailDTO, error) {
	item, err := s.loadOwnedItem(ctx, adminRestaurantID, itemID)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "item name required")
		}
		updates["name"] = name
	}
	if input.Description != nil {
		updates["description"] = *input.Description
	}
	if input.PriceCents != nil {
		if *input.PriceCents < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must not be negative")
		}
		updates["price_cents"] = *input.PriceCents
	}
	if input.Category != nil {
		category := strings.TrimSpace(*input.Category)
		if category == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "category required")
		}
		updates["category"] = category
	}
	if input.ImageURL != nil {
		updates["image_url"] = *input.ImageURL
	}
	if input.Available != nil {
		updates["available"] = *input.Available
	}
	if len(updates) == 0 {
		return s.GetItemDetail(ctx, item.ID)
	}

	if err := s.repo.UpdateMenuItem(ctx, item.ID, updates); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update menu item")
	}
	return s.GetItemDetail(ctx, item.ID)
}

func (s *service) DeleteItem(ctx context.Context, adminRestaurantID, itemID uuid.UUID) error {
	item, err := s.loadOwnedItem(ctx, adminRestaurantID, itemID)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteMenuItem(ctx, item.ID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete menu item")
	}
	return nil
}

func (s *service) AddVariant(ctx context.Context, adminRestaurantID, itemID uuid.UUID, input VariantInput) (*ItemDetailDTO, error) {
	item, err := s.loadOwnedItem(ctx, adminRestaurantID, itemID)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "variant name required")
	}
	if input.PriceCents < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must not be negative")
	}

	// At most one default variant per item; flipping the default clears the
	// previous one in the same transaction.
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		if input.IsDefault {
			if err := txRepo.ClearDefaultVariants(ctx, item.ID); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: clear default variants")
			}
		}
		variant := &models.MenuItemVariant{
			MenuItemID: item.ID,
			Name:       name,
			PriceCents: input.PriceCents,
			IsDefault:  input.IsDefault,
		}
		if _, err := txRepo.CreateVariant(ctx, variant); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert variant")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.GetItemDetail(ctx, item.ID)
}

func (s *service) RemoveVariant(ctx context.Context, adminRestaurantID, variantID uuid.UUID) error {
	if variantID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "variant id required")
	}
	variant, err := s.repo.FindVariantByID(ctx, variantID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "variant not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load variant")
	}
	if _, err := s.loadOwnedItem(ctx, adminRestaurantID, variant.MenuItemID); err != nil {
		return err
	}
	if err := s.repo.DeleteVariant(ctx, variant.ID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete variant")
	}
	return nil
}

func (s *service) AddAddon(ctx context.Context, adminRestaurantID, itemID uuid.UUID, input AddonInput) (*ItemDetailDTO, error) {
	item, err := s.loadOwnedItem(ctx, adminRestaurantID, itemID)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "addon name required")
	}
	if input.PriceCents < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must not be negative")
	}
	category := strings.TrimSpace(input.Category)
	if category == "" {
		category = "extras"
	}

	addon := &models.MenuItemAddon{
		MenuItemID: item.ID,
		Name:       name,
		PriceCents: input.PriceCents,
		Category:   category,
	}
	if _, err := s.repo.CreateAddon(ctx, addon); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert addon")
	}
	return s.GetItemDetail(ctx, item.ID)
}

func (s *service) RemoveAddon(ctx context.Context, adminRestaurantID, addonID uuid.UUID) error {
	if addonID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "addon id required")
	}
	addon, err := s.repo.FindAddonByID(ctx, addonID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "addon not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load addon")
	}
	if _, err := s.loadOwnedItem(ctx, adminRestaurantID, addon.MenuItemID); err != nil {
		return err
	}
	if err := s.repo.DeleteAddon(ctx, addon.ID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete addon")
	}
	return nil
}

func (s *service) loadOwnedItem(ctx context.Context, adminRestaurantID, itemID uuid.UUID) (*models.MenuItem, error) {
	if adminRestaurantID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "restaurant context missing")
	}
	if itemID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "menu item id required")
	}
	item, err := s.repo.FindMenuItemDetail(ctx, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "menu item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load menu item")
	}
	if item.RestaurantID != adminRestaurantID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "menu item does not belong to restaurant")
	}
	return item, nil
}
