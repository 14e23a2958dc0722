// Package payment simulates bank-transfer authorization. No money moves;
// a configurable share of requests is declined with a refusal reason.
package payment

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/pro5598/Gearnixx-sub000/orders-service/internal/domain"
	"github.com/shopspring/decimal"
)

type Refusal int

const (
	RefusalUnknown Refusal = iota
	RefusalInsufficientFunds
	RefusalAccountClosed
	RefusalLimitExceeded
	RefusalSuspectedFraud
	RefusalBankUnavailable
)

var refusalMessages = map[Refusal]string{
	RefusalUnknown:           "Payment was declined for an unknown reason.",
	RefusalInsufficientFunds: "Payment declined: insufficient funds.",
	RefusalAccountClosed:     "Payment declined: the account is closed.",
	RefusalLimitExceeded:     "Payment declined: transfer limit exceeded.",
	RefusalSuspectedFraud:    "Payment declined: flagged by fraud checks.",
	RefusalBankUnavailable:   "Payment declined: the bank is not responding. Please try again.",
}

func (r Refusal) Message() string {
	if m, ok := refusalMessages[r]; ok {
		return m
	}
	return refusalMessages[RefusalUnknown]
}

type Result struct {
	Approved      bool
	TransactionID string
	Refusal       Refusal
}

// Authorizer decides whether a payment goes through.
type Authorizer interface {
	Authorize(ctx context.Context, amount decimal.Decimal, details domain.PaymentDetails) (Result, error)
}

// Roller returns a value in [0, 100].
type Roller interface {
	Roll() int
}

type RandomRoller struct{}

func (RandomRoller) Roll() int {
	return rand.IntN(101) // IntN excludes the upper bound
}

type Simulator struct {
	approvalRate int
	roller       Roller
	now          func() time.Time
}

// NewSimulator approves rolls below approvalRate (0..100).
func NewSimulator(approvalRate int, roller Roller) *Simulator {
	if roller == nil {
		roller = RandomRoller{}
	}
	return &Simulator{approvalRate: clampRate(approvalRate), roller: roller, now: time.Now}
}

func (s *Simulator) Authorize(ctx context.Context, amount decimal.Decimal, _ domain.PaymentDetails) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	if !amount.IsPositive() {
		return Result{}, fmt.Errorf("invalid payment amount %s", amount.StringFixed(2))
	}

	res := calcResult(s.roller.Roll(), s.approvalRate)
	res.TransactionID = fmt.Sprintf("TXN-%d", s.now().UnixNano())
	return res, nil
}

// calcResult approves rolls below approvalRate. Declined rolls map onto the
// known refusal reasons in turn; the rest are unknown.
func calcResult(roll, approvalRate int) Result {
	if roll < approvalRate {
		return Result{Approved: true}
	}
	reason := Refusal(roll - approvalRate)
	if reason == RefusalUnknown || reason > RefusalBankUnavailable {
		return Result{Refusal: RefusalUnknown}
	}
	return Result{Refusal: reason}
}

func clampRate(rate int) int {
	switch {
	case rate < 0:
		return 0
	case rate > 100:
		return 100
	}
	return rate
}
