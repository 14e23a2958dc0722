package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/pro5598/Gearnixx-sub000/pkg/logger"
	"github.com/pro5598/Gearnixx-sub000/storefront-service/internal/checkout"
	"github.com/pro5598/Gearnixx-sub000/storefront-service/internal/domain"
	"github.com/pro5598/Gearnixx-sub000/storefront-service/internal/session"
)

type CheckoutHandler struct {
	sessions *session.Registry
	timeout  time.Duration
	log      *slog.Logger
}

func NewCheckoutHandler(sessions *session.Registry, timeout time.Duration, log *slog.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		sessions: sessions,
		timeout:  timeout,
		log:      logger.OrNop(log),
	}
}

// POST /api/v1/checkout
func (h *CheckoutHandler) Begin(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	s, err := h.sessions.Get(ctx, userID).BeginCheckout()
	if err != nil {
		handleError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, s.View())
}

// GET /api/v1/checkout
func (h *CheckoutHandler) Get(w http.ResponseWriter, r *http.Request) {
	h.withSession(w, r, func(_ context.Context, s *checkout.Session) error {
		return nil
	})
}

// PUT /api/v1/checkout/customer-details
func (h *CheckoutHandler) SetCustomerDetails(w http.ResponseWriter, r *http.Request) {
	var req domain.CustomerDetails
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	h.withSession(w, r, func(_ context.Context, s *checkout.Session) error {
		return s.SetCustomerDetails(req)
	})
}

// PUT /api/v1/checkout/payment-details
func (h *CheckoutHandler) SetPaymentDetails(w http.ResponseWriter, r *http.Request) {
	var req domain.PaymentDetails
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	h.withSession(w, r, func(_ context.Context, s *checkout.Session) error {
		return s.SetPaymentDetails(req)
	})
}

// POST /api/v1/checkout/proceed
func (h *CheckoutHandler) Proceed(w http.ResponseWriter, r *http.Request) {
	h.withSession(w, r, func(_ context.Context, s *checkout.Session) error {
		return s.Proceed()
	})
}

// POST /api/v1/checkout/back
func (h *CheckoutHandler) Back(w http.ResponseWriter, r *http.Request) {
	h.withSession(w, r, func(_ context.Context, s *checkout.Session) error {
		return s.Back()
	})
}

// POST /api/v1/checkout/submit
//
// A declined order is a 200 with step=payment and the reason in message.
func (h *CheckoutHandler) Submit(w http.ResponseWriter, r *http.Request) {
	h.withSession(w, r, func(ctx context.Context, s *checkout.Session) error {
		_, err := s.Submit(ctx)
		return err
	})
}

// DELETE /api/v1/checkout
func (h *CheckoutHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	if err := h.sessions.Get(ctx, userID).EndCheckout(); err != nil {
		handleError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// withSession runs fn on the user's active checkout and answers with its
// view. Validation failures answer 422 with the field messages.
func (h *CheckoutHandler) withSession(w http.ResponseWriter, r *http.Request, fn func(ctx context.Context, s *checkout.Session) error) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	s, err := h.sessions.Get(ctx, userID).Checkout()
	if err != nil {
		handleError(w, err)
		return
	}

	if err := fn(ctx, s); err != nil {
		if errors.Is(err, checkout.ErrValidation) {
			v := s.View()
			respondJSON(w, http.StatusUnprocessableEntity, ErrorResponse{
				Error:  err.Error(),
				Code:   "validation_failed",
				Fields: v.ValidationErrors,
			})
			return
		}
		h.log.InfoContext(ctx, "checkout action rejected", "user_id", userID, "checkout_id", s.ID(), "error", err)
		handleError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, s.View())
}
