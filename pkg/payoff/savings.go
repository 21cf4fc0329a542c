package payoff

import "github.com/shopspring/decimal"

// SavingsStatus describes which side of a comparison, if any, never pays off.
type SavingsStatus string

const (
	// SavingsComparable means both schedules pay off and the diff is finite.
	SavingsComparable SavingsStatus = "comparable"
	// SavingsBaselineNever means only the plan pays off; savings are unbounded.
	SavingsBaselineNever SavingsStatus = "baseline_never"
	// SavingsPlanNever means the plan itself never pays off.
	SavingsPlanNever SavingsStatus = "plan_never"
	// SavingsBothNever means neither schedule pays off.
	SavingsBothNever SavingsStatus = "both_never"
)

// Savings is the "interest saved" and "time saved" of a plan against the
// minimum-payment baseline. The amounts are only meaningful when Status is
// SavingsComparable.
type Savings struct {
	Status        SavingsStatus   `json:"status"`
	InterestSaved decimal.Decimal `json:"interestSaved"`
	MonthsSaved   int             `json:"monthsSaved"`
}

// Compare diffs two complete simulation results.
func Compare(baseline, plan Result) Savings {
	switch {
	case baseline.Converged() && plan.Converged():
		return Savings{
			Status:        SavingsComparable,
			InterestSaved: baseline.TotalInterest.Sub(plan.TotalInterest),
			MonthsSaved:   baseline.Months.Count() - plan.Months.Count(),
		}
	case plan.Converged():
		return Savings{Status: SavingsBaselineNever}
	case baseline.Converged():
		return Savings{Status: SavingsPlanNever}
	default:
		return Savings{Status: SavingsBothNever}
	}
}
