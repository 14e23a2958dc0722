// Package checkout walks a cart through review, customer details, payment
// and order placement. Forward steps are gated by pure validation; only the
// submit step talks to the order service.
package checkout

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/pro5598/Gearnixx-sub000/pkg/logger"
	"github.com/pro5598/Gearnixx-sub000/storefront-service/internal/domain"
	"github.com/shopspring/decimal"
)

const defaultFailureMessage = "Failed to place order. Please try again."

// Cart is the part of the cart store checkout needs.
type Cart interface {
	ItemCount() int
	Total() decimal.Decimal
	ToOrderPayload() []domain.OrderLine
	Clear(ctx context.Context) error
}

// OrderCreator places orders with the order service.
type OrderCreator interface {
	CreateOrder(ctx context.Context, req domain.CreateOrderRequest) (*domain.CreateOrderResponse, error)
}

type Options struct {
	UserID       string
	Pricing      Pricing
	AccountTypes []string
	Logger       *slog.Logger
	// OnPlaced, when set, receives the checkout id of a placed order.
	OnPlaced     func(checkoutID string)
}

// Session is one attempt to turn a cart into an order. It is safe for
// concurrent use; at most one order submission is outstanding at a time.
type Session struct {
	mu sync.Mutex

	id       string
	userID   string
	step     Step
	customer domain.CustomerDetails
	payment  domain.PaymentDetails
	errs     ValidationErrors
	message  string
	result   *domain.OrderResult
	placed   *domain.Totals
	closed   bool

	cart         Cart
	orders       OrderCreator
	pricing      Pricing
	accountTypes []string
	onPlaced     func(string)
	log          *slog.Logger
}

// View is a read-only copy of the session state.
type View struct {
	ID               string                 `json:"id"`
	Step             Step                   `json:"step"`
	CustomerDetails  domain.CustomerDetails `json:"customerDetails"`
	PaymentDetails   domain.PaymentDetails  `json:"paymentDetails"`
	ValidationErrors ValidationErrors       `json:"validationErrors,omitempty"`
	Message          string                 `json:"message,omitempty"`
	Totals           domain.Totals          `json:"totals"`
	OrderResult      *domain.OrderResult    `json:"orderResult,omitempty"`
	Closable         bool                   `json:"closable"`
}

// Begin starts checkout at the review step. The cart must not be empty.
func Begin(c Cart, orders OrderCreator, opts Options) (*Session, error) {
	if c.ItemCount() == 0 {
		return nil, ErrEmptyCart
	}
	if opts.Pricing == (Pricing{}) {
		opts.Pricing = DefaultPricing()
	}
	if len(opts.AccountTypes) == 0 {
		opts.AccountTypes = DefaultAccountTypes
	}
	return &Session{
		id:           uuid.NewString(),
		userID:       opts.UserID,
		step:         StepReview,
		cart:         c,
		orders:       orders,
		pricing:      opts.Pricing,
		accountTypes: opts.AccountTypes,
		onPlaced:     opts.OnPlaced,
		log:          logger.OrNop(opts.Logger),
	}, nil
}

func (s *Session) ID() string {
	return s.id
}

func (s *Session) Step() Step {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.step
}

func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()

	v := View{
		ID:              s.id,
		Step:            s.step,
		CustomerDetails: s.customer,
		PaymentDetails:  s.payment,
		Message:         s.message,
		Totals:          s.totalsLocked(),
		Closable:        s.step != StepProcessing,
	}
	v.PaymentDetails.AccountNumber = maskAccountNumber(s.payment.AccountNumber)
	if len(s.errs) > 0 {
		v.ValidationErrors = make(ValidationErrors, len(s.errs))
		for k, e := range s.errs {
			v.ValidationErrors[k] = e
		}
	}
	if s.result != nil {
		r := *s.result
		v.OrderResult = &r
	}
	return v
}

func (s *Session) Totals() domain.Totals {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.totalsLocked()
}

func (s *Session) Result() (domain.OrderResult, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.result == nil {
		return domain.OrderResult{}, false
	}
	return *s.result, true
}

// SetCustomerDetails fills the details form. Only allowed on the details step.
func (s *Session) SetCustomerDetails(d domain.CustomerDetails) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkOpen(); err != nil {
		return err
	}
	if s.step != StepDetails {
		return fmt.Errorf("%w: customer details cannot be edited at step %s", ErrIllegalTransition, s.step)
	}
	s.customer = d
	return nil
}

// SetPaymentDetails fills the payment form. Only allowed on the payment step.
func (s *Session) SetPaymentDetails(d domain.PaymentDetails) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkOpen(); err != nil {
		return err
	}
	if s.step != StepPayment {
		return fmt.Errorf("%w: payment details cannot be edited at step %s", ErrIllegalTransition, s.step)
	}
	s.payment = d
	return nil
}

// Proceed advances review→details unconditionally and details→payment when
// the customer details validate. On a failed gate the session stays put,
// its validation errors are populated and ErrValidation is returned.
func (s *Session) Proceed() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkOpen(); err != nil {
		return err
	}

	if s.step == StepDetails {
		if errs := ValidateCustomerDetails(s.customer); len(errs) > 0 {
			s.errs = errs
			return ErrValidation
		}
	}
	if err := s.fire(EventProceed); err != nil {
		return err
	}
	s.errs = nil
	return nil
}

// Back returns to the previous step. Not possible while an order is being placed.
func (s *Session) Back() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkOpen(); err != nil {
		return err
	}
	if s.step == StepProcessing {
		return ErrSubmissionInFlight
	}
	if err := s.fire(EventBack); err != nil {
		return err
	}
	s.errs = nil
	s.message = ""
	return nil
}

// Close abandons the session. Not possible while an order is being placed.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.step == StepProcessing {
		return ErrSubmissionInFlight
	}
	s.closed = true
	return nil
}

func (s *Session) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Submit validates the payment details and places the order.
//
// The returned error only reports local rejections: ErrSubmissionInFlight,
// ErrValidation, ErrEmptyCart, ErrIllegalTransition and ErrSessionClosed.
// A failed or erroring order service call is absorbed: the session goes
// back to payment, keeps the cart, and exposes the reason in View().Message.
func (s *Session) Submit(ctx context.Context) (Step, error) {
	s.mu.Lock()
	if err := s.checkOpen(); err != nil {
		s.mu.Unlock()
		return "", err
	}
	if s.step == StepProcessing {
		s.mu.Unlock()
		return StepProcessing, ErrSubmissionInFlight
	}
	if _, ok := Next(s.step, EventSubmit); !ok {
		step := s.step
		s.mu.Unlock()
		return step, fmt.Errorf("%w: cannot submit from %s", ErrIllegalTransition, step)
	}
	if errs := ValidatePaymentDetails(s.payment, s.accountTypes); len(errs) > 0 {
		s.errs = errs
		s.mu.Unlock()
		return StepPayment, ErrValidation
	}
	if s.cart.ItemCount() == 0 {
		s.mu.Unlock()
		return StepPayment, ErrEmptyCart
	}

	s.errs = nil
	s.message = ""
	_ = s.fire(EventSubmit)
	req := domain.CreateOrderRequest{
		CheckoutID:      s.id,
		UserID:          s.userID,
		Items:           s.cart.ToOrderPayload(),
		CustomerDetails: s.customer,
		PaymentDetails:  s.payment,
		Totals:          s.totalsLocked(),
	}
	s.placed = &req.Totals
	s.mu.Unlock()

	resp, err := s.orders.CreateOrder(ctx, req)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil || resp == nil || !resp.Success {
		s.message = failureMessage(resp, err)
		s.log.WarnContext(ctx, "order placement failed",
			"checkout_id", s.id, "user_id", s.userID, "error", err, "message", s.message)
		s.placed = nil
		_ = s.fire(EventFail)
		return s.step, nil
	}

	total := resp.Order.Total
	if !total.IsPositive() {
		total = req.Totals.Total
	}
	s.result = &domain.OrderResult{
		OrderID:     resp.Order.ID,
		OrderNumber: resp.Order.OrderNumber,
		Total:       total,
	}
	_ = s.fire(EventSucceed)
	if s.onPlaced != nil {
		s.onPlaced(s.id)
	}

	if err := s.cart.Clear(ctx); err != nil {
		// order already placed; keep the success result
		s.log.ErrorContext(ctx, "failed to clear cart after order", "checkout_id", s.id, "error", err)
	}
	s.log.InfoContext(ctx, "order placed",
		"checkout_id", s.id, "order_number", s.result.OrderNumber, "total", s.result.Total.StringFixed(2))
	return s.step, nil
}

// fire must be called with mu held.
func (s *Session) fire(e Event) error {
	to, ok := Next(s.step, e)
	if !ok {
		return fmt.Errorf("%w: %s on %s", ErrIllegalTransition, e, s.step)
	}
	s.log.Debug("checkout transition", "checkout_id", s.id, "from", s.step.String(), "event", string(e), "to", to.String())
	s.step = to
	return nil
}

func (s *Session) checkOpen() error {
	if s.closed {
		return ErrSessionClosed
	}
	return nil
}

// totalsLocked prices the live cart until an order is submitted; from then
// on it reports what was sent, since the cart is cleared on success.
func (s *Session) totalsLocked() domain.Totals {
	if s.placed != nil {
		return *s.placed
	}
	return s.pricing.Totals(s.cart.Total())
}

func failureMessage(resp *domain.CreateOrderResponse, err error) string {
	if resp != nil && strings.TrimSpace(resp.Message) != "" {
		return resp.Message
	}
	if err != nil {
		return err.Error()
	}
	return defaultFailureMessage
}

func maskAccountNumber(n string) string {
	n = strings.Join(strings.Fields(n), "")
	if len(n) <= 4 {
		return n
	}
	return strings.Repeat("*", len(n)-4) + n[len(n)-4:]
}
