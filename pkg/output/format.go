// Package output provides utilities for formatting and displaying payoff
// projections.
package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/iwvelando/payoff-forecast/internal/projection"
	"github.com/iwvelando/payoff-forecast/pkg/format"
	"github.com/iwvelando/payoff-forecast/pkg/payoff"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// printer remembers the first write error so renderers can print freely and
// check once.
type printer struct {
	p   *message.Printer
	w   io.Writer
	err error
}

func newPrinter(w io.Writer) *printer {
	return &printer{p: message.NewPrinter(language.English), w: w}
}

func (pr *printer) printf(key string, args ...interface{}) {
	if pr.err != nil {
		return
	}
	_, pr.err = pr.p.Fprintf(pr.w, key, args...)
}

// PrettyFormat writes a human-readable rather than machine-readable report.
// At most rows months of each plan schedule are listed; a non-positive rows
// lists every month.
func PrettyFormat(w io.Writer, report projection.Report, rows int) error {
	pr := newPrinter(w)
	for i, proj := range report.Projections {
		if i > 0 {
			pr.printf("\n")
		}
		prettyProjection(pr, proj, rows)
	}
	if len(report.Projections) > 1 {
		pr.printf("\n")
		prettySummary(pr, report)
	}
	return pr.err
}

func prettyProjection(pr *printer, proj projection.Projection, rows int) {
	money := func(amount decimal.Decimal) string { return format.Currency(amount, proj.Currency) }

	pr.printf("--- Results for %s (%s, %s) ---\n", proj.Name, proj.DebtID, proj.Kind)
	pr.printf("Starting balance:      %s\n", money(proj.StartingBalance))
	pr.printf("Strategy:              %s, %s/month\n", proj.Strategy, money(proj.Payment))
	pr.printf("First month interest:  %s\n", money(proj.FirstMonthInterest))
	pr.printf("Plan payoff:           %s, %s\n", format.MonthsToYears(proj.Plan.Months), interestLabel(proj.Plan, proj.Currency))
	pr.printf("Minimum-payment payoff: %s, %s\n", format.MonthsToYears(proj.Baseline.Months), interestLabel(proj.Baseline, proj.Currency))
	pr.printf("Savings:               %s\n", savingsLabel(proj.Savings, proj.Currency))
	pr.printf("3-year payment:        %s/month\n", money(proj.SuggestedPayment))
	if proj.Utilization != nil {
		pr.printf("Utilization:           %s%% (%s)\n", proj.Utilization.Percent.StringFixed(2), proj.Utilization.Tier)
	}
	for _, note := range proj.Notes {
		pr.printf("Note: %s\n", note)
	}

	if !proj.Plan.Converged() {
		return
	}
	pr.printf("Month | Purchase      | Payment       | Interest      | Balance\n")
	pr.printf("_____ | _____________ | _____________ | _____________ | _____________\n")
	breakdown := limit(proj.Plan.Breakdown, rows)
	for _, row := range breakdown {
		pr.printf("%5d | %13s | %13s | %13s | %13s\n",
			row.Month, money(row.Purchase), money(row.Payment), money(row.Interest), money(row.Balance))
	}
	if hidden := len(proj.Plan.Breakdown) - len(breakdown); hidden > 0 {
		pr.printf("... %d more months\n", hidden)
	}
}

func prettySummary(pr *printer, report projection.Report) {
	summary := report.Summary
	pr.printf("=== Portfolio ===\n")
	pr.printf("Longest payoff: %s\n", format.MonthsToYears(summary.LongestMonths))
	for _, group := range summary.ByCurrency {
		interest := format.NeverLabel
		if group.InterestBounded {
			interest = format.Currency(group.TotalInterest, group.Currency)
		}
		pr.printf("%s: %d debts, balance %s, total interest %s, longest payoff %s\n",
			group.Currency, group.Debts, format.Currency(group.Balance, group.Currency), interest,
			format.MonthsToYears(group.LongestMonths))
	}
}

func interestLabel(result payoff.Result, code string) string {
	if !result.Converged() {
		return "interest unbounded"
	}
	return format.Currency(result.TotalInterest, code) + " interest"
}

func savingsLabel(savings payoff.Savings, code string) string {
	switch savings.Status {
	case payoff.SavingsComparable:
		return fmt.Sprintf("%s interest, %d months vs minimum payments",
			format.Currency(savings.InterestSaved, code), savings.MonthsSaved)
	case payoff.SavingsBaselineNever:
		return "minimum payments never pay this off"
	case payoff.SavingsPlanNever:
		return "this plan never pays off"
	default:
		return "neither schedule pays off"
	}
}

func limit(rows []payoff.MonthRow, n int) []payoff.MonthRow {
	if n <= 0 || len(rows) <= n {
		return rows
	}
	return rows[:n]
}

var csvHeader = []string{"debt", "currency", "month", "purchase", "payment", "interest", "balance"}

// CsvFormat outputs each debt's plan schedule in comma-separated value format.
// A debt that never pays off is written as a single row with month "never".
func CsvFormat(w io.Writer, report projection.Report, rows int) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(csvHeader); err != nil {
		return err
	}

	for _, proj := range report.Projections {
		if !proj.Plan.Converged() {
			never := []string{proj.DebtID, proj.Currency, format.NeverLabel, "", "", "", proj.StartingBalance.StringFixed(2)}
			if err := writer.Write(never); err != nil {
				return err
			}
			continue
		}
		for _, row := range limit(proj.Plan.Breakdown, rows) {
			record := []string{
				proj.DebtID,
				proj.Currency,
				strconv.Itoa(row.Month),
				row.Purchase.StringFixed(2),
				row.Payment.StringFixed(2),
				row.Interest.StringFixed(2),
				row.Balance.StringFixed(2),
			}
			if err := writer.Write(record); err != nil {
				return err
			}
		}
	}

	writer.Flush()
	return writer.Error()
}

// CsvString renders CsvFormat into a string.
func CsvString(report projection.Report, rows int) (string, error) {
	var b strings.Builder
	if err := CsvFormat(&b, report, rows); err != nil {
		return "", err
	}
	return b.String(), nil
}
