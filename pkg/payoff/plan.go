package payoff

import (
	"errors"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

// ErrInvalidArgument is wrapped by every input validation failure.
var ErrInvalidArgument = errors.New("invalid argument")

// Schedule maps a 1-based month index to an amount. A key present with a zero
// amount is a real entry, distinct from an absent key.
type Schedule map[int]decimal.Decimal

// At returns the amount for month and whether the month has an entry.
func (s Schedule) At(month int) (decimal.Decimal, bool) {
	amount, ok := s[month]
	return amount, ok
}

// AmountAt returns the amount for month, or zero when absent.
func (s Schedule) AmountAt(month int) decimal.Decimal {
	return s[month]
}

// Months returns the scheduled month indexes in ascending order.
func (s Schedule) Months() []int {
	months := make([]int, 0, len(s))
	for month := range s {
		months = append(months, month)
	}
	sort.Ints(months)
	return months
}

func (s Schedule) validate(label string) error {
	for _, month := range s.Months() {
		if month < 1 {
			return fmt.Errorf("%w: %s month %d must be 1 or later", ErrInvalidArgument, label, month)
		}
		if s[month].IsNegative() {
			return fmt.Errorf("%w: %s for month %d is negative (%s)", ErrInvalidArgument, label, month, s[month])
		}
	}
	return nil
}

// FixedPlan pays the same amount every month.
type FixedPlan struct {
	Amount decimal.Decimal
}

// VariablePlan pays Overrides[month] when that month has an entry and Default
// otherwise, including every month past the last override.
type VariablePlan struct {
	Overrides Schedule
	Default   decimal.Decimal
}

// PaymentFor resolves the requested payment for a 1-based month.
func (p VariablePlan) PaymentFor(month int) decimal.Decimal {
	if amount, ok := p.Overrides.At(month); ok {
		return amount
	}
	return p.Default
}

func (p VariablePlan) validate() error {
	if p.Default.IsNegative() {
		return fmt.Errorf("%w: default payment is negative (%s)", ErrInvalidArgument, p.Default)
	}
	return p.Overrides.validate("payment override")
}

func validateInputs(balance, annualRate decimal.Decimal, maxMonths int, purchases Schedule) error {
	if balance.IsNegative() {
		return fmt.Errorf("%w: balance is negative (%s)", ErrInvalidArgument, balance)
	}
	if annualRate.IsNegative() {
		return fmt.Errorf("%w: annual rate is negative (%s)", ErrInvalidArgument, annualRate)
	}
	if maxMonths < 1 {
		return fmt.Errorf("%w: max months must be at least 1, got %d", ErrInvalidArgument, maxMonths)
	}
	return purchases.validate("purchase")
}

func validatePolicy(policy MinimumPolicy) error {
	if policy.Amount.IsNegative() {
		return fmt.Errorf("%w: minimum payment is negative (%s)", ErrInvalidArgument, policy.Amount)
	}
	if policy.Rate.IsNegative() {
		return fmt.Errorf("%w: minimum payment rate is negative (%s)", ErrInvalidArgument, policy.Rate)
	}
	return nil
}
