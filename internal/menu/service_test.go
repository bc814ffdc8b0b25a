package menu

import (
	"context"
	"testing"

	"github.com/campuseats/campuseats-backend/pkg/db/models"
	pkgerrors "github.com/campuseats/campuseats-backend/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type stubRepo struct {
	restaurants map[uuid.UUID]*models.Restaurant
	items       map[uuid.UUID]*models.MenuItem
	variants    map[uuid.UUID]*models.MenuItemVariant
	addons      map[uuid.UUID]*models.MenuItemAddon
}

func newStubRepo() *stubRepo {
	return &stubRepo{
		restaurants: map[uuid.UUID]*models.Restaurant{},
		items:       map[uuid.UUID]*models.MenuItem{},
		variants:    map[uuid.UUID]*models.MenuItemVariant{},
		addons:      map[uuid.UUID]*models.MenuItemAddon{},
	}
}

func (s *stubRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubRepo) ListRestaurants(ctx context.Context, campus string) ([]models.Restaurant, error) {
	var out []models.Restaurant
	for _, r := range s.restaurants {
		if campus == "" || r.Campus == campus {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (s *stubRepo) FindRestaurantByID(ctx context.Context, id uuid.UUID) (*models.Restaurant, error) {
	if r, ok := s.restaurants[id]; ok {
		return r, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubRepo) ListMenuItems(ctx context.Context, restaurantID uuid.UUID) ([]models.MenuItem, error) {
	var out []models.MenuItem
	for _, item := range s.items {
		if item.RestaurantID == restaurantID {
			out = append(out, *item)
		}
	}
	return out, nil
}

func (s *stubRepo) FindMenuItemDetail(ctx context.Context, id uuid.UUID) (*models.MenuItem, error) {
	item, ok := s.items[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *item
	copied.Variants = nil
	copied.Addons = nil
	for _, v := range s.variants {
		if v.MenuItemID == id {
			copied.Variants = append(copied.Variants, *v)
		}
	}
	for _, a := range s.addons {
		if a.MenuItemID == id {
			copied.Addons = append(copied.Addons, *a)
		}
	}
	return &copied, nil
}

func (s *stubRepo) CreateMenuItem(ctx context.Context, item *models.MenuItem) (*models.MenuItem, error) {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	s.items[item.ID] = item
	return item, nil
}

func (s *stubRepo) UpdateMenuItem(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	item, ok := s.items[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if v, ok := updates["name"]; ok {
		item.Name = v.(string)
	}
	if v, ok := updates["price_cents"]; ok {
		item.PriceCents = v.(int)
	}
	if v, ok := updates["available"]; ok {
		item.Available = v.(bool)
	}
	return nil
}

func (s *stubRepo) DeleteMenuItem(ctx context.Context, id uuid.UUID) error {
	delete(s.items, id)
	return nil
}

func (s *stubRepo) CreateVariant(ctx context.Context, variant *models.MenuItemVariant) (*models.MenuItemVariant, error) {
	if variant.ID == uuid.Nil {
		variant.ID = uuid.New()
	}
	s.variants[variant.ID] = variant
	return variant, nil
}

func (s *stubRepo) FindVariantByID(ctx context.Context, id uuid.UUID) (*models.MenuItemVariant, error) {
	if v, ok := s.variants[id]; ok {
		return v, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubRepo) ClearDefaultVariants(ctx context.Context, menuItemID uuid.UUID) error {
	for _, v := range s.variants {
		if v.MenuItemID == menuItemID {
			v.IsDefault = false
		}
	}
	return nil
}

func (s *stubRepo) DeleteVariant(ctx context.Context, id uuid.UUID) error {
	delete(s.variants, id)
	return nil
}

func (s *stubRepo) CreateAddon(ctx context.Context, addon *models.MenuItemAddon) (*models.MenuItemAddon, error) {
	if addon.ID == uuid.Nil {
		addon.ID = uuid.New()
	}
	s.addons[addon.ID] = addon
	return addon, nil
}

func (s *stubRepo) FindAddonByID(ctx context.Context, id uuid.UUID) (*models.MenuItemAddon, error) {
	if a, ok := s.addons[id]; ok {
		return a, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubRepo) DeleteAddon(ctx context.Context, id uuid.UUID) error {
	delete(s.addons, id)
	return nil
}

type stubTxRunner struct{}

func (stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

func newTestService(t *testing.T, repo *stubRepo) Service {
	t.Helper()
	svc, err := NewService(repo, stubTxRunner{})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func seedRestaurant(repo *stubRepo) *models.Restaurant {
	r := &models.Restaurant{ID: uuid.New(), Name: "Campus Grill", Campus: "north", IsOpen: true}
	repo.restaurants[r.ID] = r
	return r
}

func TestCreateItemValidation(t *testing.T) {
	repo := newStubRepo()
	restaurant := seedRestaurant(repo)
	svc := newTestService(t, repo)
	ctx := context.Background()

	_, err := svc.CreateItem(ctx, restaurant.ID, CreateItemInput{Name: "  ", PriceCents: 100, Category: "mains"})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}

	_, err = svc.CreateItem(ctx, restaurant.ID, CreateItemInput{Name: "Burger", PriceCents: -1, Category: "mains"})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for negative price, got %v", err)
	}

	_, err = svc.CreateItem(ctx, uuid.Nil, CreateItemInput{Name: "Burger", PriceCents: 100, Category: "mains"})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden error without restaurant context, got %v", err)
	}
}

func TestCreateAndFetchItemDetail(t *testing.T) {
	repo := newStubRepo()
	restaurant := seedRestaurant(repo)
	svc := newTestService(t, repo)
	ctx := context.Background()

	detail, err := svc.CreateItem(ctx, restaurant.ID, CreateItemInput{
		Name:       "Burrito",
		PriceCents: 899,
		Category:   "mains",
		Available:  true,
	})
	if err != nil {
		t.Fatalf("create item: %v", err)
	}
	if detail.RestaurantID != restaurant.ID {
		t.Fatalf("expected restaurant %s, got %s", restaurant.ID, detail.RestaurantID)
	}
	if detail.PriceCents != 899 {
		t.Fatalf("expected price 899, got %d", detail.PriceCents)
	}
}

func TestAddVariantKeepsSingleDefault(t *testing.T) {
	repo := newStubRepo()
	restaurant := seedRestaurant(repo)
	svc := newTestService(t, repo)
	ctx := context.Background()

	detail, err := svc.CreateItem(ctx, restaurant.ID, CreateItemInput{Name: "Coffee", PriceCents: 300, Category: "drinks", Available: true})
	if err != nil {
		t.Fatalf("create item: %v", err)
	}

	if _, err := svc.AddVariant(ctx, restaurant.ID, detail.ID, VariantInput{Name: "Small", PriceCents: 300, IsDefault: true}); err != nil {
		t.Fatalf("add first variant: %v", err)
	}
	after, err := svc.AddVariant(ctx, restaurant.ID, detail.ID, VariantInput{Name: "Large", PriceCents: 450, IsDefault: true})
	if err != nil {
		t.Fatalf("add second variant: %v", err)
	}

	defaults := 0
	for _, v := range after.Variants {
		if v.IsDefault {
			defaults++
			if v.Name != "Large" {
				t.Fatalf("expected Large to be the default, got %s", v.Name)
			}
		}
	}
	if defaults != 1 {
		t.Fatalf("expected exactly one default variant, got %d", defaults)
	}
}

func TestAdminCannotTouchForeignItem(t *testing.T) {
	repo := newStubRepo()
	restaurant := seedRestaurant(repo)
	other := &models.Restaurant{ID: uuid.New(), Name: "Other", Campus: "south", IsOpen: true}
	repo.restaurants[other.ID] = other
	svc := newTestService(t, repo)
	ctx := context.Background()

	detail, err := svc.CreateItem(ctx, restaurant.ID, CreateItemInput{Name: "Salad", PriceCents: 700, Category: "mains", Available: true})
	if err != nil {
		t.Fatalf("create item: %v", err)
	}

	err = svc.DeleteItem(ctx, other.ID, detail.ID)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden error, got %v", err)
	}
}

func TestGetItemDetailNotFound(t *testing.T) {
	repo := newStubRepo()
	svc := newTestService(t, repo)

	_, err := svc.GetItemDetail(context.Background(), uuid.New())
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found error, got %v", err)
	}
}
