package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/campuseats/campuseats-backend/api/controllers"
	webhookcontrollers "github.com/campuseats/campuseats-backend/api/controllers/webhooks"
	"github.com/campuseats/campuseats-backend/api/middleware"
	"github.com/campuseats/campuseats-backend/internal/cart"
	checkoutsvc "github.com/campuseats/campuseats-backend/internal/checkout"
	"github.com/campuseats/campuseats-backend/internal/menu"
	"github.com/campuseats/campuseats-backend/internal/orders"
	"github.com/campuseats/campuseats-backend/internal/reviews"
	stripewebhook "github.com/campuseats/campuseats-backend/internal/webhooks/stripe"
	"github.com/campuseats/campuseats-backend/pkg/config"
	"github.com/campuseats/campuseats-backend/pkg/db"
	"github.com/campuseats/campuseats-backend/pkg/enums"
	"github.com/campuseats/campuseats-backend/pkg/logger"
	"github.com/campuseats/campuseats-backend/pkg/redis"
	"github.com/campuseats/campuseats-backend/pkg/stripe"
)

// RouterParams bundle everything the HTTP surface depends on.
type RouterParams struct {
	Config        *config.Config
	Logger        *logger.Logger
	DB            db.Pinger
	Redis         redis.Pinger
	Stripe        *stripe.Client
	Registry      prometheus.Gatherer
	CartService   cart.Service
	MenuService   menu.Service
	CheckoutSvc   checkoutsvc.Service
	OrdersService orders.Service
	ReviewsSvc    reviews.Service
	StripeWebhook *stripewebhook.Service
}

func NewRouter(p RouterParams) http.Handler {
	cfg := p.Config
	logg := p.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, p.DB, p.Redis))
	})

	if p.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(p.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1/webhooks", func(r chi.Router) {
		r.Post("/stripe", webhookcontrollers.StripeWebhook(p.StripeWebhook, p.Stripe, logg))
	})

	// Browsing endpoints stay public so customers can look at menus and
	// reviews before signing in.
	r.Route("/api/v1/restaurants", func(r chi.Router) {
		r.Get("/", controllers.RestaurantList(p.MenuService, logg))
		r.Get("/{restaurantId}/menu", controllers.RestaurantMenu(p.MenuService, logg))
	})
	r.Get("/api/v1/menu-items/{itemId}", controllers.MenuItemDetail(p.MenuService, logg))
	r.Get("/api/v1/reviews", controllers.ReviewList(p.ReviewsSvc, logg))

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.CartFetch(p.CartService, logg))
			r.Post("/lines", controllers.CartAddLine(p.CartService, logg))
			r.Patch("/lines/{lineId}", controllers.CartUpdateLine(p.CartService, logg))
			r.Delete("/lines/{lineId}", controllers.CartRemoveLine(p.CartService, logg))
			r.Delete("/", controllers.CartClear(p.CartService, logg))
		})

		r.Route("/checkout", func(r chi.Router) {
			r.Post("/", controllers.Checkout(p.CheckoutSvc, logg))
			r.Get("/confirmation", controllers.CheckoutConfirmation(p.CheckoutSvc, logg))
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.OrderList(p.OrdersService, logg))
			r.Get("/{orderId}", controllers.OrderDetail(p.OrdersService, logg))
			r.Post("/{orderId}/status", controllers.OrderUpdateStatus(p.OrdersService, logg))
		})

		r.Put("/reviews", controllers.ReviewUpsert(p.ReviewsSvc, logg))

		r.Route("/restaurant", func(r chi.Router) {
			r.Use(middleware.RequireRole(logg, enums.RoleRestaurantAdmin.String()))
			r.Get("/orders", controllers.RestaurantOrderList(p.OrdersService, logg))
			r.Route("/menu-items", func(r chi.Router) {
				r.Post("/", controllers.MenuItemCreate(p.MenuService, logg))
				r.Patch("/{itemId}", controllers.MenuItemUpdate(p.MenuService, logg))
				r.Delete("/{itemId}", controllers.MenuItemDelete(p.MenuService, logg))
				r.Post("/{itemId}/variants", controllers.VariantAdd(p.MenuService, logg))
				r.Delete("/variants/{variantId}", controllers.VariantRemove(p.MenuService, logg))
				r.Post("/{itemId}/addons", controllers.AddonAdd(p.MenuService, logg))
				r.Delete("/addons/{addonId}", controllers.AddonRemove(p.MenuService, logg))
			})
		})

		r.Route("/driver", func(r chi.Router) {
			r.Use(middleware.RequireRole(logg, enums.RoleDriver.String()))
			r.Get("/queue", controllers.DriverQueue(p.OrdersService, logg))
		})
	})

	return r
}
