package payoff

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// MonthRow is one month of a payoff timeline. Balance is the end-of-month
// balance.
type MonthRow struct {
	Month    int             `json:"month"`
	Purchase decimal.Decimal `json:"purchase"`
	Payment  decimal.Decimal `json:"payment"`
	Interest decimal.Decimal `json:"interest"`
	Balance  decimal.Decimal `json:"balance"`
}

// Result is the outcome of one simulation. When Months is Never the schedule
// did not pay off within the horizon, TotalInterest is unbounded (held as
// zero) and Breakdown is empty.
type Result struct {
	Months        Term
	TotalInterest decimal.Decimal
	Breakdown     []MonthRow
}

// NeverPaysOff is the result of a non-convergent schedule.
func NeverPaysOff() Result {
	return Result{Months: Never}
}

// Converged reports whether the balance reached zero within the horizon.
func (r Result) Converged() bool {
	return r.Months.Finite()
}

// TotalPaid sums every payment in the breakdown.
func (r Result) TotalPaid() decimal.Decimal {
	total := decimal.Zero
	for _, row := range r.Breakdown {
		total = total.Add(row.Payment)
	}
	return total
}

type resultJSON struct {
	Months        Term             `json:"months"`
	TotalInterest *decimal.Decimal `json:"totalInterest"`
	Converged     bool             `json:"converged"`
	Breakdown     []MonthRow       `json:"breakdown"`
}

// MarshalJSON renders months and totalInterest as null for a non-convergent
// result.
func (r Result) MarshalJSON() ([]byte, error) {
	out := resultJSON{
		Months:    r.Months,
		Converged: r.Converged(),
		Breakdown: r.Breakdown,
	}
	if out.Breakdown == nil {
		out.Breakdown = []MonthRow{}
	}
	if r.Converged() {
		interest := r.TotalInterest
		out.TotalInterest = &interest
	}
	return json.Marshal(out)
}

// UnmarshalJSON is the inverse of MarshalJSON.
func (r *Result) UnmarshalJSON(data []byte) error {
	var in resultJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	*r = Result{Months: in.Months, Breakdown: in.Breakdown}
	if in.TotalInterest != nil {
		r.TotalInterest = *in.TotalInterest
	}
	if len(r.Breakdown) == 0 {
		r.Breakdown = nil
	}
	return nil
}
