// Package portfolio folds per-debt payoff projections into portfolio totals
// for the combined simulator.
package portfolio

import (
	"encoding/json"
	"sort"
	"strings"

	"github.com/iwvelando/payoff-forecast/pkg/payoff"
	"github.com/shopspring/decimal"
)

// Entry is one debt's projection as seen by the aggregator.
type Entry struct {
	DebtID          string
	Currency        string
	StartingBalance decimal.Decimal
	Plan            payoff.Result
	Baseline        payoff.Result
}

// CurrencyTotal groups the debts denominated in one currency.
type CurrencyTotal struct {
	Currency        string          `json:"currency"`
	Balance         decimal.Decimal `json:"balance"`
	TotalInterest   decimal.Decimal `json:"totalInterest"`
	InterestBounded bool            `json:"interestBounded"`
	LongestMonths   payoff.Term     `json:"longestMonths"`
	Debts           int             `json:"debts"`
}

type currencyTotalFields CurrencyTotal

// MarshalJSON renders totalInterest as null when it is unbounded.
func (c CurrencyTotal) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		currencyTotalFields
		TotalInterest *decimal.Decimal `json:"totalInterest"`
	}{currencyTotalFields(c), boundedInterest(c.TotalInterest, c.InterestBounded)})
}

// Summary is the portfolio-level view across every debt.
//
// TotalBalance is a currency-naive sum, only meaningful when every debt shares
// a currency; ByCurrency carries the per-currency figures. TotalInterest is
// only meaningful when InterestBounded is true.
type Summary struct {
	TotalBalance    decimal.Decimal           `json:"totalBalance"`
	TotalInterest   decimal.Decimal           `json:"totalInterest"`
	InterestBounded bool                      `json:"interestBounded"`
	LongestMonths   payoff.Term               `json:"longestMonths"`
	ByCurrency      []CurrencyTotal           `json:"byCurrency"`
	PerDebtSavings  map[string]payoff.Savings `json:"perDebtSavings"`
}

type summaryFields Summary

// MarshalJSON renders totalInterest as null when it is unbounded.
func (s Summary) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		summaryFields
		TotalInterest *decimal.Decimal `json:"totalInterest"`
	}{summaryFields(s), boundedInterest(s.TotalInterest, s.InterestBounded)})
}

func boundedInterest(total decimal.Decimal, bounded bool) *decimal.Decimal {
	if !bounded {
		return nil
	}
	return &total
}

// SingleCurrency reports whether every debt shares one currency, in which case
// TotalBalance and TotalInterest can be displayed as-is.
func (s Summary) SingleCurrency() bool {
	return len(s.ByCurrency) <= 1
}

// Aggregate folds entries into a Summary. Any non-convergent plan makes the
// portfolio payoff time Never and its interest unbounded.
func Aggregate(entries []Entry) Summary {
	summary := Summary{
		TotalBalance:    decimal.Zero,
		TotalInterest:   decimal.Zero,
		InterestBounded: true,
		LongestMonths:   payoff.Months(0),
		PerDebtSavings:  make(map[string]payoff.Savings, len(entries)),
	}
	groups := make(map[string]*CurrencyTotal)

	for _, entry := range entries {
		code := strings.ToUpper(strings.TrimSpace(entry.Currency))
		group, ok := groups[code]
		if !ok {
			group = &CurrencyTotal{
				Currency:        code,
				Balance:         decimal.Zero,
				TotalInterest:   decimal.Zero,
				InterestBounded: true,
				LongestMonths:   payoff.Months(0),
			}
			groups[code] = group
		}

		summary.TotalBalance = summary.TotalBalance.Add(entry.StartingBalance)
		group.Balance = group.Balance.Add(entry.StartingBalance)
		group.Debts++

		summary.LongestMonths = summary.LongestMonths.Longer(entry.Plan.Months)
		group.LongestMonths = group.LongestMonths.Longer(entry.Plan.Months)

		if entry.Plan.Converged() {
			summary.TotalInterest = summary.TotalInterest.Add(entry.Plan.TotalInterest)
			group.TotalInterest = group.TotalInterest.Add(entry.Plan.TotalInterest)
		} else {
			summary.InterestBounded = false
			group.InterestBounded = false
		}

		summary.PerDebtSavings[entry.DebtID] = payoff.Compare(entry.Baseline, entry.Plan)
	}

	if !summary.InterestBounded {
		summary.TotalInterest = decimal.Zero
	}

	codes := make([]string, 0, len(groups))
	for code := range groups {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	summary.ByCurrency = make([]CurrencyTotal, 0, len(codes))
	for _, code := range codes {
		group := *groups[code]
		if !group.InterestBounded {
			group.TotalInterest = decimal.Zero
		}
		summary.ByCurrency = append(summary.ByCurrency, group)
	}

	return summary
}
