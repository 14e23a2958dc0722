package checkout

import "errors"

var (
	ErrEmptyCart          = errors.New("cart is empty, nothing to checkout")
	ErrIllegalTransition  = errors.New("illegal transition of checkout step")
	ErrValidation         = errors.New("checkout details are invalid")
	ErrSubmissionInFlight = errors.New("order submission already in progress")
	ErrSessionClosed      = errors.New("checkout session is closed")
)
