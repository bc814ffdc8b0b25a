package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/campuseats/campuseats-backend/api/middleware"
	"github.com/campuseats/campuseats-backend/internal/menu"
	"github.com/campuseats/campuseats-backend/pkg/enums"
	pkgerrors "github.com/campuseats/campuseats-backend/pkg/errors"
	"github.com/google/uuid"
)

type stubMenuService struct {
	detail     *menu.ItemDetailDTO
	err        error
	gotCreate  menu.CreateItemInput
	gotUpdate  menu.UpdateItemInput
	gotVariant menu.VariantInput
	gotAddon   menu.AddonInput
}

func (s *stubMenuService) ListRestaurants(ctx context.Context, campus string) ([]menu.RestaurantDTO, error) {
	return nil, s.err
}

func (s *stubMenuService) GetRestaurantMenu(ctx context.Context, restaurantID uuid.UUID) ([]menu.MenuItemSummary, error) {
	return nil, s.err
}

func (s *stubMenuService) GetItemDetail(ctx context.Context, itemID uuid.UUID) (*menu.ItemDetailDTO, error) {
	return s.detail, s.err
}

func (s *stubMenuService) CreateItem(ctx context.Context, adminRestaurantID uuid.UUID, input menu.CreateItemInput) (*menu.ItemDetailDTO, error) {
	s.gotCreate = input
	return s.detail, s.err
}

func (s *stubMenuService) UpdateItem(ctx context.Context, adminRestaurantID, itemID uuid.UUID, input menu.UpdateItemInput) (*menu.ItemDetailDTO, error) {
	s.gotUpdate = input
	return s.detail, s.err
}

func (s *stubMenuService) DeleteItem(ctx context.Context, adminRestaurantID, itemID uuid.UUID) error {
	return s.err
}

func (s *stubMenuService) AddVariant(ctx context.Context, adminRestaurantID, itemID uuid.UUID, input menu.VariantInput) (*menu.ItemDetailDTO, error) {
	s.gotVariant = input
	return s.detail, s.err
}

func (s *stubMenuService) RemoveVariant(ctx context.Context, adminRestaurantID, variantID uuid.UUID) error {
	return s.err
}

func (s *stubMenuService) AddAddon(ctx context.Context, adminRestaurantID, itemID uuid.UUID, input menu.AddonInput) (*menu.ItemDetailDTO, error) {
	s.gotAddon = input
	return s.detail, s.err
}

func (s *stubMenuService) RemoveAddon(ctx context.Context, adminRestaurantID, addonID uuid.UUID) error {
	return s.err
}

func adminRequest(method, target, body string) *http.Request {
	req := authedRequest(method, target, body, enums.RoleRestaurantAdmin)
	ctx := middleware.WithRestaurantID(req.Context(), uuid.NewString())
	return req.WithContext(ctx)
}

func TestMenuItemCreateParsesDecimalPrice(t *testing.T) {
	stub := &stubMenuService{detail: &menu.ItemDetailDTO{}}
	handler := MenuItemCreate(stub, nil)

	req := adminRequest(http.MethodPost, "/api/v1/restaurant/menu-items",
		`{"name":"Classic Burger","price":"12.50","category":"mains","available":true}`)
	resp := httptest.NewRecorder()
	handler(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", resp.Code, resp.Body.String())
	}
	if stub.gotCreate.PriceCents != 1250 {
		t.Fatalf("expected 1250 cents, got %d", stub.gotCreate.PriceCents)
	}
}

func TestMenuItemCreateRejectsBadPrice(t *testing.T) {
	for _, price := range []string{"12.505", "-1.00", "lunch money"} {
		stub := &stubMenuService{detail: &menu.ItemDetailDTO{}}
		handler := MenuItemCreate(stub, nil)

		req := adminRequest(http.MethodPost, "/api/v1/restaurant/menu-items",
			`{"name":"Classic Burger","price":"`+price+`","category":"mains"}`)
		resp := httptest.NewRecorder()
		handler(resp, req)

		if resp.Code != http.StatusBadRequest {
			t.Fatalf("price %q: expected 400 got %d", price, resp.Code)
		}
		if code := decodeErrorCode(t, resp); code != string(pkgerrors.CodeValidation) {
			t.Fatalf("price %q: expected validation code, got %s", price, code)
		}
	}
}

func TestMenuItemUpdatePriceIsOptional(t *testing.T) {
	stub := &stubMenuService{detail: &menu.ItemDetailDTO{}}
	handler := MenuItemUpdate(stub, nil)

	req := adminRequest(http.MethodPatch, "/api/v1/restaurant/menu-items/x", `{"price":"9.00"}`)
	req = withURLParam(req, "itemId", uuid.NewString())
	resp := httptest.NewRecorder()
	handler(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if stub.gotUpdate.PriceCents == nil || *stub.gotUpdate.PriceCents != 900 {
		t.Fatalf("expected 900 cents, got %v", stub.gotUpdate.PriceCents)
	}

	req = adminRequest(http.MethodPatch, "/api/v1/restaurant/menu-items/x", `{"name":"Renamed"}`)
	req = withURLParam(req, "itemId", uuid.NewString())
	resp = httptest.NewRecorder()
	handler(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if stub.gotUpdate.PriceCents != nil {
		t.Fatal("price must stay unset when omitted")
	}
}

func TestVariantAddParsesDecimalPrice(t *testing.T) {
	stub := &stubMenuService{detail: &menu.ItemDetailDTO{}}
	handler := VariantAdd(stub, nil)

	req := adminRequest(http.MethodPost, "/api/v1/restaurant/menu-items/x/variants",
		`{"name":"Grande","price":"10.50","is_default":true}`)
	req = withURLParam(req, "itemId", uuid.NewString())
	resp := httptest.NewRecorder()
	handler(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", resp.Code, resp.Body.String())
	}
	if stub.gotVariant.PriceCents != 1050 {
		t.Fatalf("expected 1050 cents, got %d", stub.gotVariant.PriceCents)
	}
}

func TestMenuAdminRequiresRestaurantScope(t *testing.T) {
	stub := &stubMenuService{detail: &menu.ItemDetailDTO{}}
	handler := MenuItemCreate(stub, nil)

	// A restaurant_admin token without the restaurant claim gets nowhere.
	req := authedRequest(http.MethodPost, "/api/v1/restaurant/menu-items",
		`{"name":"Classic Burger","price":"12.50","category":"mains"}`, enums.RoleRestaurantAdmin)
	resp := httptest.NewRecorder()
	handler(resp, req)

	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d", resp.Code)
	}
}
