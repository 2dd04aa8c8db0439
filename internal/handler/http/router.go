package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Eggie20/Online-Supermarket/internal/config"
	"github.com/Eggie20/Online-Supermarket/internal/confirm"
	"github.com/Eggie20/Online-Supermarket/internal/event"
	"github.com/Eggie20/Online-Supermarket/internal/service"
	"github.com/Eggie20/Online-Supermarket/pkg/health"
	"github.com/Eggie20/Online-Supermarket/pkg/middleware"
)

// requestTimeout bounds every API request except the event stream.
const requestTimeout = 30 * time.Second

// catalogMaxAge is how long clients may cache the category and seller lists.
const catalogMaxAge = 5 * time.Minute

// Deps groups what the router needs to build its handlers.
type Deps struct {
	Storefront *service.StorefrontService
	Seller     *service.SellerService
	Confirms   *confirm.Registry
	Bus        *event.Bus
	Health     *health.Handler
}

// NewRouter creates a chi router with all storefront routes registered.
func NewRouter(cfg *config.Config, deps Deps, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowedOrigins = cfg.CORSAllowedOrigins
	corsCfg.Environment = cfg.Environment

	// Global middleware
	r.Use(middleware.CORS(corsCfg))
	r.Use(middleware.Recovery(logger))
	r.Use(chimw.Compress(5))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.PrometheusMetrics("storefront"))
	r.Use(middleware.Tracing("storefront"))
	r.Use(middleware.RequestLogger(logger))

	// Health check endpoints
	r.Get("/health/live", deps.Health.LivenessHandler())
	r.Get("/health/ready", deps.Health.ReadinessHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	// Pprof debug endpoints with IP allowlist.
	middleware.RegisterPprof(r, cfg.PprofAllowedCIDRs, logger)

	products := NewProductHandler(deps.Storefront, logger)
	cart := NewCartHandler(deps.Storefront, logger)
	wishlist := NewWishlistHandler(deps.Storefront, logger)
	confirmations := NewConfirmationHandler(deps.Confirms, logger)
	seller := NewSellerHandler(deps.Seller, logger)
	events := NewEventsHandler(deps.Bus, cfg.SSEKeepAlive, logger)

	r.Route("/api/v1", func(r chi.Router) {
		// Long-lived stream, kept out of the request timeout. EventSource
		// cannot send headers, so the profile may come as ?profile=.
		r.With(middleware.ProfileFromHeaderOrQuery).Get("/events", events.Stream)

		r.Group(func(r chi.Router) {
			r.Use(middleware.ProfileFromHeader)
			r.Use(chimw.Timeout(requestTimeout))
			r.Use(ContentTypeJSON)

			r.Get("/products", products.ListProducts)
			r.Get("/products/{id}", products.GetProduct)

			r.Group(func(r chi.Router) {
				r.Use(middleware.CacheControl(catalogMaxAge))
				r.Get("/categories", products.ListCategories)
				r.Get("/sellers", products.ListSellers)
			})

			r.Route("/cart", func(r chi.Router) {
				r.Use(middleware.NoStore)
				r.Get("/", cart.GetCart)
				r.Delete("/", cart.ClearCart)

				r.Post("/items", cart.AddItem)
				r.Put("/items/{productId}", cart.UpdateItemQuantity)
				r.Delete("/items/{productId}", cart.RemoveItem)
				r.Post("/items/{productId}/increase", cart.IncreaseQuantity)
				r.Post("/items/{productId}/decrease", cart.DecreaseQuantity)
			})

			r.Route("/wishlist", func(r chi.Router) {
				r.Use(middleware.NoStore)
				r.Get("/", wishlist.GetWishlist)
				r.Delete("/", wishlist.ClearWishlist)

				r.Post("/items/{productId}/toggle", wishlist.ToggleItem)
				r.Post("/items/{productId}/move-to-cart", wishlist.MoveToCart)
				r.Delete("/items/{productId}", wishlist.RemoveItem)
			})

			r.Route("/confirmations/{id}", func(r chi.Router) {
				r.Get("/", confirmations.GetConfirmation)
				r.Post("/accept", confirmations.Accept)
				r.Post("/cancel", confirmations.Cancel)
			})

			r.Route("/seller", func(r chi.Router) {
				r.Get("/products", seller.ListProducts)
				r.Delete("/products/{id}", seller.DeleteProduct)
				r.Get("/orders", seller.ListOrders)
				r.Get("/orders/{id}", seller.GetOrder)
				r.Get("/dashboard", seller.Dashboard)
			})
		})
	})

	return r
}
