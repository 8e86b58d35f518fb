package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/pedidos-storefront/api/controllers"
	"github.com/angelmondragon/pedidos-storefront/api/middleware"
	"github.com/angelmondragon/pedidos-storefront/internal/catalog"
	"github.com/angelmondragon/pedidos-storefront/internal/panel"
	"github.com/angelmondragon/pedidos-storefront/pkg/config"
	"github.com/angelmondragon/pedidos-storefront/pkg/logger"
	"github.com/angelmondragon/pedidos-storefront/pkg/redis"
)

// Dependencies are the services the router mounts. Redis and Gatherer are optional.
type Dependencies struct {
	Catalog  catalog.Service
	Panel    panel.Service
	Redis    *redis.Client
	Gatherer prometheus.Gatherer
}

func NewRouter(cfg *config.Config, logg *logger.Logger, deps Dependencies) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.CORS.AllowedOrigins),
	)

	checkoutPolicy := middleware.NewRateLimitPolicy(
		"checkout",
		cfg.Checkout.RateLimitWindow,
		cfg.Checkout.RateLimit,
		0,
	).WithMessage("Demasiados pedidos, intenta de nuevo en un momento.")
	sessionOpenPolicy := middleware.NewRateLimitPolicy(
		"session-open",
		cfg.Sessions.OpenRateLimitWindow,
		cfg.Sessions.OpenRateLimit,
		0,
	)

	// A nil *redis.Client must not reach the middleware as a non-nil interface.
	var pinger redis.Pinger
	checkoutLimit := middleware.RateLimit(checkoutPolicy, nil, logg)
	sessionOpenLimit := middleware.RateLimit(sessionOpenPolicy, nil, logg)
	checkoutIdempotency := middleware.Idempotency(nil, logg)
	if deps.Redis != nil {
		pinger = deps.Redis
		checkoutLimit = middleware.RateLimit(checkoutPolicy, deps.Redis, logg)
		sessionOpenLimit = middleware.RateLimit(sessionOpenPolicy, deps.Redis, logg)
		checkoutIdempotency = middleware.Idempotency(deps.Redis, logg)
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, pinger, logg))
	})

	if deps.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1/catalog/sessions", func(r chi.Router) {
		r.With(sessionOpenLimit).Post("/", controllers.CatalogOpen(deps.Catalog, logg))
		r.Route("/{sessionId}", func(r chi.Router) {
			r.Get("/", controllers.CatalogView(deps.Catalog, logg))
			r.Delete("/", controllers.CatalogClose(deps.Catalog, logg))
			r.Delete("/cart", controllers.CatalogClearCart(deps.Catalog, logg))
			r.Post("/cart/items", controllers.CatalogAddItem(deps.Catalog, logg))
			r.Put("/delivery-zone", controllers.CatalogSelectZone(deps.Catalog, logg))
			r.With(checkoutLimit, checkoutIdempotency).Post("/checkout", controllers.CatalogCheckout(deps.Catalog, logg))
		})
	})

	r.Route("/api/v1/panel/sessions", func(r chi.Router) {
		r.With(sessionOpenLimit).Post("/", controllers.PanelOpen(deps.Panel, logg))
		r.Route("/{sessionId}", func(r chi.Router) {
			r.Get("/", controllers.PanelSession(deps.Panel, logg))
			r.Delete("/", controllers.PanelClose(deps.Panel, logg))
			r.Put("/store", controllers.PanelSaveStore(deps.Panel, logg))
			r.Post("/store/load", controllers.PanelLoadStore(deps.Panel, logg))
			r.Get("/products", controllers.PanelProducts(deps.Panel, logg))
			r.Post("/products", controllers.PanelAddProduct(deps.Panel, logg))
			r.Get("/delivery-zones", controllers.PanelZones(deps.Panel, logg))
			r.Post("/delivery-zones", controllers.PanelAddZone(deps.Panel, logg))
			r.Get("/coupons", controllers.PanelCoupons(deps.Panel, logg))
			r.Post("/coupons", controllers.PanelAddCoupon(deps.Panel, logg))
			r.Get("/orders", controllers.PanelOrders(deps.Panel, logg))
			r.Get("/orders/{orderId}", controllers.PanelOrderDetail(deps.Panel, logg))
			r.Patch("/orders/{orderId}/status", controllers.PanelUpdateOrderStatus(deps.Panel, logg))
			r.Get("/stats", controllers.PanelStats(deps.Panel, logg))
		})
	})

	return r
}
