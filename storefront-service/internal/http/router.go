package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/pro5598/Gearnixx-sub000/storefront-service/internal/session"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

type RouterConfig struct {
	RequestTimeout time.Duration
	Logger         *slog.Logger
	// Health adds component states to the /health body.
	Health func() map[string]string
}

func NewRouter(sessions *session.Registry, cfg RouterConfig) http.Handler {
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 30 * time.Second
	}
	cartHandler := NewCartHandler(sessions, cfg.RequestTimeout, cfg.Logger)
	wishlistHandler := NewWishlistHandler(sessions, cfg.RequestTimeout, cfg.Logger)
	checkoutHandler := NewCheckoutHandler(sessions, cfg.RequestTimeout, cfg.Logger)
	ordersHandler := NewOrdersHandler(sessions, cfg.RequestTimeout, cfg.Logger)
	reviewsHandler := NewReviewsHandler(sessions, cfg.RequestTimeout, cfg.Logger)

	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestIDMiddleware)
	r.Use(middleware.Timeout(cfg.RequestTimeout))
	r.Use(MockAuthMiddleware)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		body := map[string]string{"status": "ok"}
		if cfg.Health != nil {
			for k, v := range cfg.Health() {
				body[k] = v
			}
		}
		respondJSON(w, http.StatusOK, body)
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/cart", func(r chi.Router) {
			r.Get("/", cartHandler.GetCart)
			r.Delete("/", cartHandler.ClearCart)
			r.Post("/items", cartHandler.AddItem)
			r.Put("/items/{product_id}", cartHandler.UpdateQuantity)
			r.Delete("/items/{product_id}", cartHandler.RemoveItem)
		})
		r.Route("/wishlist", func(r chi.Router) {
			r.Get("/", wishlistHandler.GetWishlist)
			r.Post("/items", wishlistHandler.AddItem)
			r.Post("/toggle", wishlistHandler.Toggle)
			r.Delete("/items/{product_id}", wishlistHandler.RemoveItem)
			r.Post("/items/{product_id}/move-to-cart", wishlistHandler.MoveToCart)
		})
		r.Route("/checkout", func(r chi.Router) {
			r.Post("/", checkoutHandler.Begin)
			r.Get("/", checkoutHandler.Get)
			r.Delete("/", checkoutHandler.Cancel)
			r.Put("/customer-details", checkoutHandler.SetCustomerDetails)
			r.Put("/payment-details", checkoutHandler.SetPaymentDetails)
			r.Post("/proceed", checkoutHandler.Proceed)
			r.Post("/back", checkoutHandler.Back)
			r.Post("/submit", checkoutHandler.Submit)
		})
		r.Route("/orders", func(r chi.Router) {
			r.Get("/", ordersHandler.ListOrders)
			r.Get("/{order_id}", ordersHandler.GetOrder)
		})
		r.Post("/reviews", reviewsHandler.Submit)
	})

	return otelhttp.NewHandler(r, "storefront-service")
}
