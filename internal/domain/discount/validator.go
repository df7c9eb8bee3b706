package discount

import (
	"time"

	"github.com/shopspring/decimal"
)

type InvalidReason string

const (
	ReasonNotFound          InvalidReason = "not_found"
	ReasonInactive          InvalidReason = "inactive"
	ReasonExpired           InvalidReason = "expired"
	ReasonUsageLimitReached InvalidReason = "usage_limit_reached"
)

// Result is the outcome of validating a code against a subtotal.
// Exactly one of Valid/Reason is meaningful.
type Result struct {
	Valid          bool
	Reason         InvalidReason
	DiscountAmount decimal.Decimal
	FinalTotal     decimal.Decimal
}

var oneHundred = decimal.NewFromInt(100)

// Validate evaluates a code against a subtotal at a point in time.
// Checks run in order and the first failure wins. The function never
// mutates the code's use counter; incrementing it belongs to settlement.
// A nil code means the string the shopper entered matched nothing.
func Validate(code *Code, subtotal decimal.Decimal, now time.Time) Result {
	if code == nil {
		return Result{Reason: ReasonNotFound, FinalTotal: subtotal}
	}
	if !code.Active() {
		return Result{Reason: ReasonInactive, FinalTotal: subtotal}
	}
	if exp := code.ExpiresAt(); exp != nil && !now.Before(*exp) {
		return Result{Reason: ReasonExpired, FinalTotal: subtotal}
	}
	if max := code.MaxUses(); max != nil && code.UsesCount() >= *max {
		return Result{Reason: ReasonUsageLimitReached, FinalTotal: subtotal}
	}

	var amount decimal.Decimal
	switch code.Type() {
	case TypePercentage:
		amount = subtotal.Mul(code.Value()).Div(oneHundred)
	case TypeFixed:
		amount = code.Value()
	}

	// Clamp to [0, subtotal]; a discount never drops the total below zero.
	if amount.IsNegative() {
		amount = decimal.Zero
	}
	if amount.GreaterThan(subtotal) {
		amount = subtotal
	}
	amount = amount.Round(2)

	return Result{
		Valid:          true,
		DiscountAmount: amount,
		FinalTotal:     subtotal.Sub(amount).Round(2),
	}
}
