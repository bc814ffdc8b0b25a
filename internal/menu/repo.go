package menu

import (
	"context"

	"github.com/campuseats/campuseats-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a menu repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) ListRestaurants(ctx context.Context, campus string) ([]models.Restaurant, error) {
	var restaurants []models.Restaurant
	q := r.db.WithContext(ctx).Order("name ASC")
	if campus != "" {
		q = q.Where("campus = ?", campus)
	}
	if err := q.Find(&restaurants).Error; err != nil {
		return nil, err
	}
	return restaurants, nil
}

func (r *repository) FindRestaurantByID(ctx context.Context, id uuid.UUID) (*models.Restaurant, error) {
	var restaurant models.Restaurant
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&restaurant).Error; err != nil {
		return nil, err
	}
	return &restaurant, nil
}

func (r *repository) ListMenuItems(ctx context.Context, restaurantID uuid.UUID) ([]models.MenuItem, error) {
	var items []models.MenuItem
	err := r.db.WithContext(ctx).
		Where("restaurant_id = ?", restaurantID).
		Order("category ASC, name ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repository) FindMenuItemDetail(ctx context.Context, id uuid.UUID) (*models.MenuItem, error) {
	var item models.MenuItem
	err := r.db.WithContext(ctx).
		Preload("Variants").
		Preload("Addons").
		Where("id = ?", id).
		First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *repository) CreateMenuItem(ctx context.Context, item *models.MenuItem) (*models.MenuItem, error) {
	if err := r.db.WithContext(ctx).Create(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

func (r *repository) UpdateMenuItem(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.MenuItem{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *repository) DeleteMenuItem(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&models.MenuItem{}).Error
}

func (r *repository) CreateVariant(ctx context.Context, variant *models.MenuItemVariant) (*models.MenuItemVariant, error) {
	if err := r.db.WithContext(ctx).Create(variant).Error; err != nil {
		return nil, err
	}
	return variant, nil
}

func (r *repository) FindVariantByID(ctx context.Context, id uuid.UUID) (*models.MenuItemVariant, error) {
	var variant models.MenuItemVariant
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&variant).Error; err != nil {
		return nil, err
	}
	return &variant, nil
}

func (r *repository) ClearDefaultVariants(ctx context.Context, menuItemID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.MenuItemVariant{}).
		Where("menu_item_id = ? AND is_default", menuItemID).
		Update("is_default", false).Error
}

func (r *repository) DeleteVariant(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&models.MenuItemVariant{}).Error
}

func (r *repository) CreateAddon(ctx context.Context, addon *models.MenuItemAddon) (*models.MenuItemAddon, error) {
	if err := r.db.WithContext(ctx).Create(addon).Error; err != nil {
		return nil, err
	}
	return addon, nil
}

func (r *repository) FindAddonByID(ctx context.Context, id uuid.UUID) (*models.MenuItemAddon, error) {
	var addon models.MenuItemAddon
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&addon).Error; err != nil {
		return nil, err
	}
	return &addon, nil
}

func (r *repository) DeleteAddon(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&models.MenuItemAddon{}).Error
}
