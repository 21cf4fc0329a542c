// Package projection runs the payoff simulators for each debt the way the
// payoff screens do: the selected plan against the minimum-payment baseline,
// then a portfolio fold across debts.
package projection

import (
	"fmt"

	"github.com/iwvelando/payoff-forecast/pkg/format"
	"github.com/iwvelando/payoff-forecast/pkg/mathutil"
	"github.com/iwvelando/payoff-forecast/pkg/payoff"
	"github.com/iwvelando/payoff-forecast/pkg/portfolio"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Utilization describes how much of a card's credit limit is in use.
type Utilization struct {
	Percent    decimal.Decimal `json:"percent"`
	Tier       string          `json:"tier"`
	Color      string          `json:"color"`
	Background string          `json:"background"`
}

// Projection holds everything one payoff screen shows for a debt.
type Projection struct {
	DebtID             string          `json:"debtId"`
	Name               string          `json:"name"`
	Kind               Kind            `json:"kind"`
	Currency           string          `json:"currency"`
	StartingBalance    decimal.Decimal `json:"startingBalance"`
	Strategy           Strategy        `json:"strategy"`
	Payment            decimal.Decimal `json:"payment"`
	FirstMonthInterest decimal.Decimal `json:"firstMonthInterest"`
	SuggestedPayment   decimal.Decimal `json:"suggestedPayment"`
	Plan               payoff.Result   `json:"plan"`
	Baseline           payoff.Result   `json:"baseline"`
	Savings            payoff.Savings  `json:"savings"`
	Utilization        *Utilization    `json:"utilization,omitempty"`
	Notes              []string        `json:"notes,omitempty"`
}

// Report is the combined-simulator view across every debt.
type Report struct {
	Projections []Projection      `json:"projections"`
	Summary     portfolio.Summary `json:"summary"`
}

// Engine projects debts with a shared simulator.
type Engine struct {
	logger    *zap.Logger
	simulator *payoff.Simulator
}

// NewEngine creates an Engine. A non-positive maxMonths selects the default
// horizon.
func NewEngine(logger *zap.Logger, maxMonths int) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{logger: logger, simulator: payoff.NewSimulator(logger, maxMonths)}
}

// Project runs the debt's plan and its minimum-payment baseline and diffs
// them.
func (e *Engine) Project(debt Debt) (Projection, error) {
	projection := Projection{
		DebtID:             debt.ID,
		Name:               debt.DisplayName(),
		Kind:               debt.Kind,
		Currency:           debt.Currency,
		StartingBalance:    debt.Balance,
		Strategy:           debt.Plan.Strategy,
		FirstMonthInterest: payoff.MonthlyInterest(debt.Balance, debt.AnnualRate),
		SuggestedPayment:   payoff.PaymentForThreeYearPayoff(debt.Balance, debt.AnnualRate),
	}

	purchases := debt.Purchases
	if debt.Kind == KindLoan && len(purchases) > 0 {
		e.logger.Debug(fmt.Sprintf("ignoring %d scheduled purchases on installment loan %s", len(purchases), debt.ID),
			zap.String("op", "projection.Project"),
		)
		purchases = nil
	}

	plan, err := e.runPlan(debt, purchases, &projection)
	if err != nil {
		return Projection{}, fmt.Errorf("debt %s: %w", debt.ID, err)
	}
	projection.Plan = plan

	baseline, err := e.simulator.MinimumPayment(debt.Balance, debt.AnnualRate, debt.MinimumPolicy)
	if err != nil {
		return Projection{}, fmt.Errorf("debt %s baseline: %w", debt.ID, err)
	}
	projection.Baseline = baseline
	projection.Savings = payoff.Compare(baseline, plan)

	if debt.Kind == KindCard && debt.CreditLimit.IsPositive() {
		percent := mathutil.CalculatePercentage(debt.Balance, debt.CreditLimit)
		value := percent.InexactFloat64()
		projection.Utilization = &Utilization{
			Percent:    mathutil.Round(percent),
			Tier:       format.Utilization(value).String(),
			Color:      format.UtilizationColor(value),
			Background: format.UtilizationBackground(value),
		}
	}

	e.logger.Debug(fmt.Sprintf("projected %s: plan %s, baseline %s",
		debt.ID, format.MonthsToYears(plan.Months), format.MonthsToYears(baseline.Months)),
		zap.String("op", "projection.Project"),
	)

	return projection, nil
}

func (e *Engine) runPlan(debt Debt, purchases payoff.Schedule, projection *Projection) (payoff.Result, error) {
	switch debt.Plan.Strategy {
	case StrategyVariable:
		projection.Payment = debt.Plan.Variable.Default
		return e.simulator.Variable(debt.Balance, debt.AnnualRate, debt.Plan.Variable, purchases)
	case StrategyFixed, StrategyNone:
		fixed := debt.Plan.Fixed
		if debt.Plan.Strategy == StrategyNone {
			fixed = payoff.FixedPlan{Amount: debt.DeclaredPayment}
			projection.Strategy = StrategyFixed
		}
		projection.Payment = fixed.Amount

		// Without purchases a payment that does not beat the first month's
		// interest can never reach zero.
		if len(purchases) == 0 && debt.Balance.IsPositive() && !fixed.Amount.IsNegative() &&
			!payoff.PaymentCoversInterest(debt.Balance, debt.AnnualRate, fixed.Amount) {
			projection.Notes = append(projection.Notes, fmt.Sprintf(
				"payment too low: %s does not cover the first month's interest of %s",
				format.Currency(fixed.Amount, debt.Currency), format.Currency(projection.FirstMonthInterest, debt.Currency)))
			return payoff.NeverPaysOff(), nil
		}
		return e.simulator.Fixed(debt.Balance, debt.AnnualRate, fixed, purchases)
	default:
		return payoff.Result{}, fmt.Errorf("%w: unknown strategy %q", payoff.ErrInvalidArgument, debt.Plan.Strategy)
	}
}

// ProjectAll projects every debt and folds the results into a portfolio
// summary.
func (e *Engine) ProjectAll(debts []Debt) (Report, error) {
	report := Report{Projections: make([]Projection, 0, len(debts))}
	entries := make([]portfolio.Entry, 0, len(debts))

	for _, debt := range debts {
		projection, err := e.Project(debt)
		if err != nil {
			return Report{}, err
		}
		report.Projections = append(report.Projections, projection)
		entries = append(entries, portfolio.Entry{
			DebtID:          projection.DebtID,
			Currency:        projection.Currency,
			StartingBalance: projection.StartingBalance,
			Plan:            projection.Plan,
			Baseline:        projection.Baseline,
		})
	}

	report.Summary = portfolio.Aggregate(entries)

	e.logger.Info("projection computed",
		zap.String("op", "projection.ProjectAll"),
		zap.Int("debts", len(report.Projections)),
		zap.Bool("converged", report.Summary.LongestMonths.Finite()),
	)
	return report, nil
}

// LimitBreakdown returns a copy of the report whose plan and baseline
// breakdowns hold at most rows months. Months and totals are unchanged. A
// non-positive rows leaves the report as is.
func (r Report) LimitBreakdown(rows int) Report {
	if rows <= 0 {
		return r
	}
	limited := Report{Summary: r.Summary, Projections: make([]Projection, len(r.Projections))}
	for i, projection := range r.Projections {
		projection.Plan.Breakdown = truncateRows(projection.Plan.Breakdown, rows)
		projection.Baseline.Breakdown = truncateRows(projection.Baseline.Breakdown, rows)
		limited.Projections[i] = projection
	}
	return limited
}

func truncateRows(rows []payoff.MonthRow, limit int) []payoff.MonthRow {
	if len(rows) <= limit {
		return rows
	}
	return rows[:limit:limit]
}
