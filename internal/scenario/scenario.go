// Package scenario records saved payoff plans and their outcomes. Records are
// written by callers after a projection; the engine itself never persists
// anything.
package scenario

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/iwvelando/payoff-forecast/internal/projection"
	"github.com/iwvelando/payoff-forecast/pkg/payoff"
	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when a scenario ID does not exist.
var ErrNotFound = errors.New("scenario not found")

// Scenario is a saved payment plan for one debt and the result it produced.
// Months and TotalInterest are nil when the plan never pays off.
type Scenario struct {
	ID            string              `json:"id"`
	DebtID        string              `json:"debtId"`
	Strategy      projection.Strategy `json:"strategy"`
	FixedAmount   decimal.Decimal     `json:"fixedAmount"`
	DefaultAmount decimal.Decimal     `json:"defaultAmount"`
	Overrides     payoff.Schedule     `json:"overrides,omitempty"`
	Months        *int                `json:"months"`
	TotalInterest *decimal.Decimal    `json:"totalInterest"`
	CreatedAt     time.Time           `json:"createdAt"`
}

// Store persists scenarios.
type Store interface {
	// Save assigns an ID and creation time when missing and stores s.
	Save(ctx context.Context, s *Scenario) error
	// SaveAll stores every scenario or none of them.
	SaveAll(ctx context.Context, scenarios []*Scenario) error
	// Get returns ErrNotFound for an unknown id.
	Get(ctx context.Context, id string) (*Scenario, error)
	// ListByDebt returns the debt's scenarios, oldest first.
	ListByDebt(ctx context.Context, debtID string) ([]Scenario, error)
	// Delete returns ErrNotFound for an unknown id.
	Delete(ctx context.Context, id string) error
	Close() error
}

// FromProjection builds a record from a plan and the result the engine
// produced for it. The plan must be fixed or variable.
func FromProjection(debtID string, plan projection.Plan, result payoff.Result) (Scenario, error) {
	if debtID == "" {
		return Scenario{}, fmt.Errorf("%w: scenario needs a debt id", payoff.ErrInvalidArgument)
	}

	s := Scenario{
		DebtID:        debtID,
		Strategy:      plan.Strategy,
		FixedAmount:   decimal.Zero,
		DefaultAmount: decimal.Zero,
	}
	switch plan.Strategy {
	case projection.StrategyFixed:
		s.FixedAmount = plan.Fixed.Amount
	case projection.StrategyVariable:
		s.DefaultAmount = plan.Variable.Default
		if len(plan.Variable.Overrides) > 0 {
			s.Overrides = make(payoff.Schedule, len(plan.Variable.Overrides))
			for month, amount := range plan.Variable.Overrides {
				s.Overrides[month] = amount
			}
		}
	default:
		return Scenario{}, fmt.Errorf("%w: scenario needs a fixed or variable plan, got %q",
			payoff.ErrInvalidArgument, plan.Strategy)
	}

	if result.Converged() {
		months := result.Months.Count()
		interest := result.TotalInterest
		s.Months = &months
		s.TotalInterest = &interest
	}
	return s, nil
}

// Plan reconstructs the payment plan the scenario was saved with.
func (s Scenario) Plan() projection.Plan {
	if s.Strategy == projection.StrategyVariable {
		return projection.Plan{
			Strategy: projection.StrategyVariable,
			Variable: payoff.VariablePlan{Overrides: s.Overrides, Default: s.DefaultAmount},
		}
	}
	return projection.Plan{
		Strategy: projection.StrategyFixed,
		Fixed:    payoff.FixedPlan{Amount: s.FixedAmount},
	}
}

// Term returns the saved payoff duration.
func (s Scenario) Term() payoff.Term {
	if s.Months == nil {
		return payoff.Never
	}
	return payoff.Months(*s.Months)
}
