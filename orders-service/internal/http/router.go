package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

type RouterConfig struct {
	RequestTimeout time.Duration
	Logger         *slog.Logger
	// Ping reports database health; nil means always healthy.
	Ping func(ctx context.Context) error
}

func NewRouter(svc OrderService, cfg RouterConfig) http.Handler {
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 30 * time.Second
	}
	ordersHandler := NewOrdersHandler(svc, cfg.RequestTimeout, cfg.Logger)
	reviewsHandler := NewReviewsHandler(svc, cfg.RequestTimeout, cfg.Logger)

	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestIDMiddleware)
	r.Use(middleware.Timeout(cfg.RequestTimeout))
	r.Use(UserMiddleware)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		if cfg.Ping != nil {
			if err := cfg.Ping(r.Context()); err != nil {
				respondJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded", "database": err.Error()})
				return
			}
		}
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/orders", ordersHandler.CreateOrder)
		r.Get("/orders/{order_id}", ordersHandler.GetOrder)
		r.Patch("/orders/{order_id}/status", ordersHandler.UpdateStatus)
		r.Get("/users/{user_id}/orders", ordersHandler.ListOrders)
		r.Get("/users/{user_id}/reviews", reviewsHandler.ListReviews)
		r.Post("/reviews", reviewsHandler.SubmitReview)
	})

	return otelhttp.NewHandler(r, "orders-service")
}
