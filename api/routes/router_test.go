package routes

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

func testRouter(t *testing.T) http.Handler {
	t.Helper()
	cfg := &config.Config{}
	cfg.App.Env = "test"
	cfg.JWT = config.JWTConfig{
		Secret:            "router-test-secret",
		Issuer:            "campuseats",
		ExpirationMinutes: 30,
	}
	return NewRouter(RouterParams{Config: cfg})
}

func TestHealthLiveRoutes(t *testing.T) {
	router := testRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	if env := rec.Header().Get("X-CampusEats-Env"); env != "test" {
		t.Fatalf("expected env header, got %q", env)
	}
}

func TestProtectedRoutesRequireAuth(t *testing.T) {
	router := testRouter(t)

	paths := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/v1/cart"},
		{http.MethodPost, "/api/v1/checkout"},
		{http.MethodGet, "/api/v1/orders"},
		{http.MethodPut, "/api/v1/reviews"},
		{http.MethodGet, "/api/v1/driver/queue"},
		{http.MethodGet, "/api/v1/restaurant/orders"},
	}
	for _, tc := range paths {
		req := httptest.NewRequest(tc.method, tc.path, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("%s %s: expected 401 got %d", tc.method, tc.path, rec.Code)
		}
	}
}

func TestRoleScopedRoutesRejectWrongRole(t *testing.T) {
	router := testRouter(t)
	cfg := config.JWTConfig{
		Secret:            "router-test-secret",
		Issuer:            "campuseats",
		ExpirationMinutes: 30,
	}
	token, err := pkgauth.MintAccessToken(cfg, time.Now().UTC(), pkgauth.AccessTokenPayload{
		UserID: uuid.New(),
		Role:   enums.RoleCustomer,
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/driver/queue", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for customer on driver route, got %d", rec.Code)
	}
}

func TestUnknownRouteIs404(t *testing.T) {
	router := testRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/does-not-exist", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", rec.Code)
	}

	// Inside /api/v1 the auth middleware answers first, so an unknown path
	// needs a valid token before chi reports it missing.
	cfg := config.JWTConfig{
		Secret:            "router-test-secret",
		Issuer:            "campuseats",
		ExpirationMinutes: 30,
	}
	token, err := pkgauth.MintAccessToken(cfg, time.Now().UTC(), pkgauth.AccessTokenPayload{
		UserID: uuid.New(),
		Role:   enums.RoleCustomer,
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/does-not-exist", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for authed unknown path, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/does-not-exist", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for anonymous unknown path, got %d", rec.Code)
	}
}
