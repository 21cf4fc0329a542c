package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/iwvelando/payoff-forecast/internal/projection"
	"github.com/iwvelando/payoff-forecast/pkg/mathutil"
	"github.com/iwvelando/payoff-forecast/pkg/payoff"
	"github.com/shopspring/decimal"
)

// Debt indicates a credit card or loan and its payment strategy.
type Debt struct {
	ID             string
	Name           string
	Kind           string // card, loan
	Balance        float64
	InterestRate   float64 // percent APR
	Currency       string
	CreditLimit    float64
	MinimumPayment MinimumPayment
	MonthlyPayment float64 // declared regular payment
	Plan           Plan
	Purchases      map[string]float64 // month index -> amount
}

// MinimumPayment is the card or loan's minimum-payment policy. Percent is of
// the current balance and is only applied when set.
type MinimumPayment struct {
	Amount  float64
	Percent float64
}

// Plan selects a payment strategy. Fixed takes precedence; Default (with
// optional per-month Overrides) selects a variable plan; neither falls back to
// the declared monthly payment.
type Plan struct {
	Fixed     *float64           `yaml:"fixed,omitempty"`
	Default   *float64           `yaml:"default,omitempty"`
	Overrides map[string]float64 `yaml:"overrides,omitempty"`
}

// ToDebts converts the configured debts into projection inputs.
func (conf *Configuration) ToDebts() ([]projection.Debt, error) {
	debts := make([]projection.Debt, 0, len(conf.Debts))
	seen := make(map[string]struct{}, len(conf.Debts))

	for i, debt := range conf.Debts {
		converted, err := debt.ToProjectionDebt()
		if err != nil {
			return nil, fmt.Errorf("debt %d: %w", i+1, err)
		}
		if converted.ID == "" {
			converted.ID = fmt.Sprintf("debt-%d", i+1)
		}
		if _, dup := seen[converted.ID]; dup {
			return nil, fmt.Errorf("duplicate debt id %q", converted.ID)
		}
		seen[converted.ID] = struct{}{}
		debts = append(debts, converted)
	}

	return debts, nil
}

// ToProjectionDebt converts one configured debt. Rates are converted from
// percent to fractions.
func (debt Debt) ToProjectionDebt() (projection.Debt, error) {
	kind := projection.Kind(strings.ToLower(strings.TrimSpace(debt.Kind)))
	switch kind {
	case "":
		kind = projection.KindCard
	case projection.KindCard, projection.KindLoan:
	default:
		return projection.Debt{}, fmt.Errorf("unknown kind %q, expected card or loan", debt.Kind)
	}

	purchases, err := parseSchedule(debt.Purchases)
	if err != nil {
		return projection.Debt{}, fmt.Errorf("purchases: %w", err)
	}

	plan, err := debt.Plan.toProjectionPlan()
	if err != nil {
		return projection.Debt{}, fmt.Errorf("plan: %w", err)
	}

	return projection.Debt{
		ID:          strings.TrimSpace(debt.ID),
		Name:        debt.Name,
		Kind:        kind,
		Balance:     decimal.NewFromFloat(debt.Balance),
		AnnualRate:  mathutil.FromPercent(debt.InterestRate),
		Currency:    strings.ToUpper(strings.TrimSpace(debt.Currency)),
		CreditLimit: decimal.NewFromFloat(debt.CreditLimit),
		MinimumPolicy: payoff.MinimumPolicy{
			Amount: decimal.NewFromFloat(debt.MinimumPayment.Amount),
			Rate:   mathutil.FromPercent(debt.MinimumPayment.Percent),
		},
		DeclaredPayment: decimal.NewFromFloat(debt.MonthlyPayment),
		Plan:            plan,
		Purchases:       purchases,
	}, nil
}

func (p Plan) toProjectionPlan() (projection.Plan, error) {
	switch {
	case p.Fixed != nil:
		if len(p.Overrides) > 0 {
			return projection.Plan{}, fmt.Errorf("overrides require a variable plan (default), not fixed")
		}
		return projection.Plan{
			Strategy: projection.StrategyFixed,
			Fixed:    payoff.FixedPlan{Amount: decimal.NewFromFloat(*p.Fixed)},
		}, nil
	case p.Default != nil:
		overrides, err := parseSchedule(p.Overrides)
		if err != nil {
			return projection.Plan{}, fmt.Errorf("overrides: %w", err)
		}
		return projection.Plan{
			Strategy: projection.StrategyVariable,
			Variable: payoff.VariablePlan{
				Overrides: overrides,
				Default:   decimal.NewFromFloat(*p.Default),
			},
		}, nil
	case len(p.Overrides) > 0:
		return projection.Plan{}, fmt.Errorf("overrides require a default payment")
	default:
		return projection.Plan{Strategy: projection.StrategyNone}, nil
	}
}

// parseSchedule converts month-keyed config maps into a payoff.Schedule.
func parseSchedule(raw map[string]float64) (payoff.Schedule, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	schedule := make(payoff.Schedule, len(raw))
	for key, amount := range raw {
		month, err := strconv.Atoi(strings.TrimSpace(key))
		if err != nil {
			return nil, fmt.Errorf("invalid month %q: %w", key, err)
		}
		if month < 1 {
			return nil, fmt.Errorf("invalid month %d: months start at 1", month)
		}
		schedule[month] = decimal.NewFromFloat(amount)
	}
	return schedule, nil
}
