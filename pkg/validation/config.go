package validation

import (
	"fmt"
	"math"
	"strings"

	"github.com/iwvelando/payoff-forecast/pkg/constants"
	"github.com/iwvelando/payoff-forecast/pkg/format"
	"github.com/shopspring/decimal"
)

// ConfigValidator produces human-readable warnings for suspicious but legal
// debt configurations.
type ConfigValidator struct {
	Debts []DebtConfig
}

// DebtConfig is the subset of a configured debt the validator inspects.
type DebtConfig struct {
	Index          int
	ID             string
	Kind           string
	Currency       string
	Balance        float64
	InterestRate   float64 // percent
	CreditLimit    float64
	MinimumPayment float64
	MinimumPercent float64 // percent of the balance owed
	MonthlyPayment float64
	HasPlan        bool
	Purchases      int
}

func (d DebtConfig) label() string {
	if d.ID == "" {
		return fmt.Sprintf("Debt #%d", d.Index+1)
	}
	return fmt.Sprintf("Debt '%s'", d.ID)
}

// firstMonthInterest uses the same formula as the engine, with the rate in
// percent.
func (d DebtConfig) firstMonthInterest() float64 {
	return d.Balance * d.InterestRate / (constants.PercentageMultiplier * constants.MonthsPerYear)
}

// firstMonthMinimum mirrors the engine's minimum policy on the first month's
// post-interest balance.
func (d DebtConfig) firstMonthMinimum() float64 {
	owed := d.Balance + d.firstMonthInterest()
	minimum := math.Max(d.MinimumPayment, owed*d.MinimumPercent/constants.PercentageMultiplier)
	return math.Min(minimum, owed)
}

func (d DebtConfig) money(amount float64) string {
	return format.Currency(decimal.NewFromFloat(amount), d.Currency)
}

// ValidateDebt returns the warnings for a single debt.
func ValidateDebt(debt DebtConfig) []string {
	var warnings []string
	label := debt.label()

	if debt.ID == "" {
		warnings = append(warnings, fmt.Sprintf("%s has no id; it will be reported as debt-%d", label, debt.Index+1))
	}

	if debt.Currency != "" && !format.KnownCurrency(debt.Currency) {
		warnings = append(warnings, fmt.Sprintf("%s currency '%s' is not a recognised ISO-4217 code; amounts display with a generic $ format",
			label, debt.Currency))
	}

	if debt.Balance == 0 {
		warnings = append(warnings, fmt.Sprintf("%s has a zero balance; nothing to pay off", label))
	}

	if debt.InterestRate > 0 && debt.InterestRate < 1 {
		warnings = append(warnings, fmt.Sprintf("%s interest rate %.4g%% is unusually low; rates are percentages (24 for 24%%)",
			label, debt.InterestRate))
	}

	interest := debt.firstMonthInterest()
	if !debt.HasPlan && debt.Balance > 0 && debt.MonthlyPayment <= interest {
		warnings = append(warnings, fmt.Sprintf("%s monthly payment %s does not cover the first month's interest of %s; it will never be paid off",
			label, debt.money(debt.MonthlyPayment), debt.money(interest)))
	}

	if minimum := debt.firstMonthMinimum(); debt.Balance > 0 && minimum <= interest {
		warnings = append(warnings, fmt.Sprintf("%s minimum payment %s does not cover the first month's interest of %s; the minimum-payment baseline will never pay off",
			label, debt.money(minimum), debt.money(interest)))
	}

	if !debt.HasPlan && debt.MonthlyPayment > 0 && debt.MonthlyPayment < debt.MinimumPayment {
		warnings = append(warnings, fmt.Sprintf("%s monthly payment %s is below its minimum payment %s",
			label, debt.money(debt.MonthlyPayment), debt.money(debt.MinimumPayment)))
	}

	if strings.EqualFold(debt.Kind, "loan") && debt.Purchases > 0 {
		warnings = append(warnings, fmt.Sprintf("%s is a loan; its %d scheduled purchases will be ignored", label, debt.Purchases))
	}

	if strings.EqualFold(debt.Kind, "card") && debt.CreditLimit > 0 && debt.Balance > debt.CreditLimit {
		warnings = append(warnings, fmt.Sprintf("%s balance %s exceeds its credit limit %s",
			label, debt.money(debt.Balance), debt.money(debt.CreditLimit)))
	}

	return warnings
}

// ValidateAll validates every debt and returns the combined warnings.
func (cv *ConfigValidator) ValidateAll() []string {
	var warnings []string
	for _, debt := range cv.Debts {
		warnings = append(warnings, ValidateDebt(debt)...)
	}
	return warnings
}
