// Package payoff provides the debt payoff projection engine: single-period
// interest math and month-by-month amortization simulators for fixed,
// variable and minimum-payment strategies.
package payoff

import (
	"github.com/iwvelando/payoff-forecast/pkg/constants"
	"github.com/iwvelando/payoff-forecast/pkg/mathutil"
	"github.com/shopspring/decimal"
)

var monthsPerYear = decimal.NewFromInt(constants.MonthsPerYear)

// MonthlyInterest calculates one month of interest on balance for an annual
// rate expressed as a fraction (0.24 for 24% APR).
func MonthlyInterest(balance, annualRate decimal.Decimal) decimal.Decimal {
	return balance.Mul(annualRate).Div(monthsPerYear)
}

// MinimumPolicy is the rule for the smallest required monthly payment. A zero
// Rate is a flat minimum; a positive Rate additionally requires that fraction
// of the balance when it exceeds Amount.
type MinimumPolicy struct {
	Amount decimal.Decimal
	Rate   decimal.Decimal
}

// FlatMinimum returns a policy with a flat minimum payment.
func FlatMinimum(amount decimal.Decimal) MinimumPolicy {
	return MinimumPolicy{Amount: amount}
}

// EffectiveMinimumPayment resolves policy against the current balance. The
// result never exceeds the balance.
func EffectiveMinimumPayment(policy MinimumPolicy, balance decimal.Decimal) decimal.Decimal {
	if !balance.IsPositive() {
		return decimal.Zero
	}
	amount := policy.Amount
	if policy.Rate.IsPositive() {
		amount = mathutil.Max(amount, balance.Mul(policy.Rate))
	}
	if amount.IsNegative() {
		return decimal.Zero
	}
	return mathutil.Min(amount, balance)
}

// PaymentForThreeYearPayoff calculates the fixed monthly payment that
// amortizes balance over 36 months using the standard annuity formula.
func PaymentForThreeYearPayoff(balance, annualRate decimal.Decimal) decimal.Decimal {
	return paymentForTerm(balance, annualRate, constants.SuggestedPayoffMonths)
}

func paymentForTerm(balance, annualRate decimal.Decimal, termMonths int) decimal.Decimal {
	n := decimal.NewFromInt(int64(termMonths))
	periodicRate := annualRate.Div(monthsPerYear)
	if periodicRate.IsZero() {
		return balance.Div(n)
	}

	// payment = P*r/(1-(1+r)^-n) = P*r*(1+r)^n/((1+r)^n-1)
	growth := decimal.NewFromInt(1).Add(periodicRate)
	power := decimal.NewFromInt(1)
	for i := 0; i < termMonths; i++ {
		power = power.Mul(growth)
	}
	return balance.Mul(periodicRate).Mul(power).Div(power.Sub(decimal.NewFromInt(1)))
}

// PaymentCoversInterest reports whether payment strictly exceeds the first
// month's interest on balance. A payment that does not can never pay off a
// balance that receives no further purchases, so callers short-circuit to
// Never instead of simulating it.
func PaymentCoversInterest(balance, annualRate, payment decimal.Decimal) bool {
	return payment.GreaterThan(MonthlyInterest(balance, annualRate))
}
