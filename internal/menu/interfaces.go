package menu

import (
	"context"

	"github.com/campuseats/campuseats-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository defines persistence operations for restaurants and menus.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	ListRestaurants(ctx context.Context, campus string) ([]models.Restaurant, error)
	FindRestaurantByID(ctx context.Context, id uuid.UUID) (*models.Restaurant, error)
	ListMenuItems(ctx context.Context, restaurantID uuid.UUID) ([]models.MenuItem, error)
	FindMenuItemDetail(ctx context.Context, id uuid.UUID) (*models.MenuItem, error)
	CreateMenuItem(ctx context.Context, item *models.MenuItem) (*models.MenuItem, error)
	UpdateMenuItem(ctx context.Context, id uuid.UUID, updates map[string]any) error
	DeleteMenuItem(ctx context.Context, id uuid.UUID) error
	CreateVariant(ctx context.Context, variant *models.MenuItemVariant) (*models.MenuItemVariant, error)
	FindVariantByID(ctx context.Context, id uuid.UUID) (*models.MenuItemVariant, error)
	ClearDefaultVariants(ctx context.Context, menuItemID uuid.UUID) error
	DeleteVariant(ctx context.Context, id uuid.UUID) error
	CreateAddon(ctx context.Context, addon *models.MenuItemAddon) (*models.MenuItemAddon, error)
	FindAddonByID(ctx context.Context, id uuid.UUID) (*models.MenuItemAddon, error)
	DeleteAddon(ctx context.Context, id uuid.UUID) error
}
