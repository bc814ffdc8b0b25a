package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	pkgauth "github.com/campuseats/campuseats-backend/pkg/auth"
	"github.com/campuseats/campuseats-backend/pkg/config"
	"github.com/campuseats/campuseats-backend/pkg/enums"
	"github.com/google/uuid"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "test-secret",
		Issuer:            "campuseats",
		ExpirationMinutes: 30,
	}
}

func TestAuthSeedsIdentity(t *testing.T) {
	cfg := testJWTConfig()
	userID := uuid.New()
	restaurantID := uuid.New()
	token, err := pkgauth.MintAccessToken(cfg, time.Now().UTC(), pkgauth.AccessTokenPayload{
		UserID:       userID,
		Role:         enums.RoleRestaurantAdmin,
		RestaurantID: &restaurantID,
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}

	var got Identity
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, err := IdentityFromContext(r.Context())
		if err != nil {
			t.Fatalf("identity missing: %v", err)
		}
		got = identity
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	Auth(cfg, nil)(next).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d (%s)", rec.Code, rec.Body.String())
	}
	if got.UserID != userID {
		t.Fatalf("expected user %s, got %s", userID, got.UserID)
	}
	if got.Role != enums.RoleRestaurantAdmin {
		t.Fatalf("expected restaurant_admin role, got %s", got.Role)
	}
	if got.RestaurantID == nil || *got.RestaurantID != restaurantID {
		t.Fatalf("expected restaurant scope %s, got %v", restaurantID, got.RestaurantID)
	}
}

func TestAuthRejectsMissingHeader(t *testing.T) {
	called := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true })

	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders", nil)
	rec := httptest.NewRecorder()
	Auth(testJWTConfig(), nil)(next).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", rec.Code)
	}
	if called {
		t.Fatalf("handler must not run without credentials")
	}
}

func TestAuthRejectsGarbageToken(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("handler must not run with a bad token")
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	rec := httptest.NewRecorder()
	Auth(testJWTConfig(), nil)(next).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", rec.Code)
	}
}

func TestRequireRoleBlocksOtherRoles(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})
	guard := RequireRole(nil, enums.RoleDriver.String())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/driver/queue", nil)
	req = req.WithContext(WithRole(req.Context(), enums.RoleCustomer.String()))
	rec := httptest.NewRecorder()
	guard(next).ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/driver/queue", nil)
	req = req.WithContext(WithRole(req.Context(), enums.RoleDriver.String()))
	rec = httptest.NewRecorder()
	guard(next).ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for allowed role got %d", rec.Code)
	}
}
