// Package mathutil provides common mathematical utility functions over
// decimal currency values.
package mathutil

import (
	"github.com/iwvelando/payoff-forecast/pkg/constants"
	"github.com/shopspring/decimal"
)

var (
	hundred   = decimal.NewFromFloat(constants.PercentageMultiplier)
	tolerance = decimal.NewFromFloat(constants.CurrencyTolerance)
)

// Round rounds a value to two decimals, i.e. to represent real currency.
// Used for display and for making logical comparisons.
func Round(val decimal.Decimal) decimal.Decimal {
	return val.Round(constants.DecimalPrecision)
}

// IsZero checks if a value is effectively zero (within one cent)
func IsZero(val decimal.Decimal) bool {
	return val.Abs().LessThanOrEqual(tolerance)
}

// IsPositive checks if a value is positive (greater than tolerance)
func IsPositive(val decimal.Decimal) bool {
	return val.GreaterThan(tolerance)
}

// WithinTolerance checks if two values are within a specified tolerance
func WithinTolerance(val1, val2, tol decimal.Decimal) bool {
	return val1.Sub(val2).Abs().LessThanOrEqual(tol)
}

// Min returns the smaller of two values
func Min(a, b decimal.Decimal) decimal.Decimal {
	if a.LessThan(b) {
		return a
	}
	return b
}

// Max returns the larger of two values
func Max(a, b decimal.Decimal) decimal.Decimal {
	if a.GreaterThan(b) {
		return a
	}
	return b
}

// CalculatePercentage calculates what percentage value is of total
func CalculatePercentage(value, total decimal.Decimal) decimal.Decimal {
	if total.IsZero() {
		return decimal.Zero
	}
	return value.Div(total).Mul(hundred)
}

// FromPercent converts a percentage (24 for 24%) into a fraction (0.24).
func FromPercent(percent float64) decimal.Decimal {
	return decimal.NewFromFloat(percent).Div(hundred)
}
