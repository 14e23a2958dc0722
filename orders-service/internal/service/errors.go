package service

import (
	"errors"
	"fmt"

	"github.com/pro5598/Gearnixx-sub000/orders-service/internal/payment"
)

var (
	ErrInvalidOrder      = errors.New("invalid order")
	ErrTotalsMismatch    = errors.New("order totals do not match items")
	ErrPaymentDeclined   = errors.New("payment declined")
	ErrCheckoutConflict  = errors.New("checkout belongs to another order")
	ErrIllegalTransition = errors.New("illegal transition of order status")
	ErrInvalidRating     = errors.New("rating must be between 1 and 5")
	ErrNotReviewable     = errors.New("product is not reviewable for this order")
)

// DeclinedError carries the refusal reason of a declined payment.
type DeclinedError struct {
	Refusal payment.Refusal
}

func (e *DeclinedError) Error() string {
	return fmt.Sprintf("%s: %s", ErrPaymentDeclined, e.Refusal.Message())
}

func (e *DeclinedError) Unwrap() error {
	return ErrPaymentDeclined
}
