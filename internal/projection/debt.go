package projection

import (
	"github.com/iwvelando/payoff-forecast/pkg/payoff"
	"github.com/shopspring/decimal"
)

// Kind distinguishes revolving lines from installment loans.
type Kind string

const (
	KindCard Kind = "card"
	KindLoan Kind = "loan"
)

// Strategy is the payment strategy selected for a debt.
type Strategy string

const (
	// StrategyNone falls back to the debt's declared monthly payment.
	StrategyNone     Strategy = ""
	StrategyFixed    Strategy = "fixed"
	StrategyVariable Strategy = "variable"
)

// Plan is the payment strategy chosen for one debt. Only the field matching
// Strategy is read.
type Plan struct {
	Strategy Strategy
	Fixed    payoff.FixedPlan
	Variable payoff.VariablePlan
}

// Debt is the read-only input for one projection. AnnualRate is a fraction
// (0.24 for 24% APR).
type Debt struct {
	ID              string
	Name            string
	Kind            Kind
	Balance         decimal.Decimal
	AnnualRate      decimal.Decimal
	Currency        string
	CreditLimit     decimal.Decimal
	MinimumPolicy   payoff.MinimumPolicy
	DeclaredPayment decimal.Decimal
	Plan            Plan
	Purchases       payoff.Schedule
}

// DisplayName returns Name, or ID when no name was given.
func (d Debt) DisplayName() string {
	if d.Name != "" {
		return d.Name
	}
	return d.ID
}
