// Package pricing holds stateless price and stock arithmetic.
package pricing

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// ErrInvalidArgument is returned when an argument is outside its allowed range.
var ErrInvalidArgument = errors.New("invalid argument")

var (
	hundred = decimal.NewFromInt(100)
	one     = decimal.NewFromInt(1)
)

// DiscountedPrice returns originalPrice reduced by ratePercent percent.
// ratePercent must be within [0, 100] and originalPrice must not be negative.
func DiscountedPrice(originalPrice, ratePercent decimal.Decimal) (decimal.Decimal, error) {
	if originalPrice.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: original price cannot be negative", ErrInvalidArgument)
	}
	if ratePercent.IsNegative() || ratePercent.GreaterThan(hundred) {
		return decimal.Zero, fmt.Errorf("%w: discount rate must be between 0 and 100", ErrInvalidArgument)
	}

	return originalPrice.Mul(one.Sub(ratePercent.Div(hundred))), nil
}

// IsQuantitySufficient reports whether current covers required.
func IsQuantitySufficient(current, required int) (bool, error) {
	if current < 0 {
		return false, fmt.Errorf("%w: current quantity cannot be negative", ErrInvalidArgument)
	}
	if required < 0 {
		return false, fmt.Errorf("%w: required quantity cannot be negative", ErrInvalidArgument)
	}

	return current >= required, nil
}
