package integration

import (
	"bytes"
	"strings"
	"testing"

	"github.com/iwvelando/payoff-forecast/internal/config"
	"github.com/iwvelando/payoff-forecast/internal/projection"
	"github.com/iwvelando/payoff-forecast/pkg/output"
	"github.com/iwvelando/payoff-forecast/pkg/payoff"
	"github.com/iwvelando/payoff-forecast/pkg/testutil"
	"go.uber.org/zap"
)

const testConfig = "../test_config.yaml"

// runPipeline loads and projects the test configuration exactly as main() does.
func runPipeline(t *testing.T) (*config.Configuration, projection.Report) {
	t.Helper()

	conf, err := config.LoadConfiguration(testConfig)
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}

	debts, err := conf.ToDebts()
	if err != nil {
		t.Fatalf("ToDebts() error = %v", err)
	}

	report, err := projection.NewEngine(zap.NewNop(), conf.Simulation.MaxMonths).ProjectAll(debts)
	if err != nil {
		t.Fatalf("ProjectAll() error = %v", err)
	}
	return conf, report
}

func TestMainIntegrationBaseline(t *testing.T) {
	_, report := runPipeline(t)

	if len(report.Projections) != 4 {
		t.Fatalf("Expected 4 projections, got %d", len(report.Projections))
	}

	expected := []struct {
		id     string
		months payoff.Term
	}{
		{id: "visa", months: payoff.Months(12)},
		{id: "store", months: payoff.Never},
		{id: "car", months: payoff.Months(33)},
	}
	for _, want := range expected {
		proj := testutil.FindProjection(report, want.id)
		if proj == nil {
			t.Errorf("Missing projection: %s", want.id)
			continue
		}
		if proj.Plan.Months != want.months {
			t.Errorf("%s: months = %s, expected %s", want.id, proj.Plan.Months, want.months)
		}
	}

	store := testutil.FindProjection(report, "store")
	if len(store.Notes) == 0 || !strings.Contains(store.Notes[0], "payment too low") {
		t.Errorf("store: expected a payment-too-low note, got %v", store.Notes)
	}
	if store.Savings.Status != payoff.SavingsPlanNever {
		t.Errorf("store: savings status = %s, expected %s", store.Savings.Status, payoff.SavingsPlanNever)
	}

	amex := testutil.FindProjection(report, "amex")
	if !amex.Plan.Converged() {
		t.Fatal("amex: variable plan should pay off")
	}
	if !amex.Plan.Breakdown[0].Payment.Equal(testutil.Decimal("300")) {
		t.Errorf("amex: month 1 payment = %s, expected override 300", amex.Plan.Breakdown[0].Payment)
	}
	if !amex.Plan.Breakdown[1].Payment.IsZero() {
		t.Errorf("amex: month 2 payment = %s, expected explicit zero override", amex.Plan.Breakdown[1].Payment)
	}
	if !amex.Plan.Breakdown[2].Purchase.Equal(testutil.Decimal("250")) {
		t.Errorf("amex: month 3 purchase = %s, expected 250", amex.Plan.Breakdown[2].Purchase)
	}
	if amex.Savings.Status != payoff.SavingsBaselineNever {
		t.Errorf("amex: minimum payments below interest should never pay off, got %s", amex.Savings.Status)
	}

	summary := report.Summary
	if summary.LongestMonths.Finite() || summary.InterestBounded {
		t.Errorf("portfolio with a non-convergent debt should be unbounded, got %s bounded=%v",
			summary.LongestMonths, summary.InterestBounded)
	}
	if len(summary.ByCurrency) != 2 || summary.ByCurrency[0].Currency != "EUR" || summary.ByCurrency[1].Currency != "USD" {
		t.Errorf("unexpected currency groups %+v", summary.ByCurrency)
	}
	longestUSD := testutil.FindProjection(report, "visa").Plan.Months.
		Longer(amex.Plan.Months).
		Longer(testutil.FindProjection(report, "car").Plan.Months)
	if usd := summary.ByCurrency[1]; !usd.InterestBounded || usd.Debts != 3 || usd.LongestMonths != longestUSD {
		t.Errorf("unexpected USD group %+v, expected longest %s", usd, longestUSD)
	}
}

func TestConservationAcrossPipeline(t *testing.T) {
	_, report := runPipeline(t)

	for _, proj := range report.Projections {
		balance := proj.StartingBalance
		for _, row := range proj.Plan.Breakdown {
			expected := balance.Add(row.Purchase).Add(row.Interest).Sub(row.Payment)
			if !expected.Equal(row.Balance) {
				t.Fatalf("%s month %d: balance %s, expected %s", proj.DebtID, row.Month, row.Balance, expected)
			}
			if row.Balance.IsNegative() {
				t.Fatalf("%s month %d: negative balance %s", proj.DebtID, row.Month, row.Balance)
			}
			balance = row.Balance
		}
		if proj.Plan.Converged() && !balance.IsZero() {
			t.Errorf("%s: final balance %s, expected exactly zero", proj.DebtID, balance)
		}
	}
}

func TestCSVOutputFormat(t *testing.T) {
	conf, report := runPipeline(t)

	csv, err := output.CsvString(report, conf.Output.BreakdownRows)
	if err != nil {
		t.Fatalf("CsvString() error = %v", err)
	}
	lines := strings.Split(strings.TrimSpace(csv), "\n")

	if lines[0] != "debt,currency,month,purchase,payment,interest,balance" {
		t.Errorf("unexpected header %q", lines[0])
	}
	if !strings.Contains(csv, "\nstore,EUR,never,") {
		t.Error("expected a never row for the store card")
	}
	for _, id := range []string{"visa", "amex", "car"} {
		count := strings.Count(csv, "\n"+id+",")
		if count == 0 || count > conf.Output.BreakdownRows {
			t.Errorf("%s: %d csv rows, expected 1..%d", id, count, conf.Output.BreakdownRows)
		}
	}
}

func TestPrettyOutputFormat(t *testing.T) {
	conf, report := runPipeline(t)

	var buf bytes.Buffer
	if err := output.PrettyFormat(&buf, report, conf.Output.BreakdownRows); err != nil {
		t.Fatalf("PrettyFormat() error = %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"--- Results for Visa Rewards (visa, card) ---",
		"--- Results for Car Loan (car, loan) ---",
		"Plan payoff:           2 yr 9 mo",
		"€2,000.00",
		"=== Portfolio ===",
		"Longest payoff: never",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("pretty output missing %q", want)
		}
	}
}

func TestConfigurationValidation(t *testing.T) {
	conf, err := config.LoadConfiguration(testConfig)
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}

	joined := strings.Join(conf.ValidateConfiguration(), "\n")
	for _, want := range []string{
		"Debt 'store' monthly payment €40.00 does not cover the first month's interest of €50.00",
		"Debt 'store' monthly payment €40.00 is below its minimum payment €60.00",
		"Debt 'amex' minimum payment $40.00 does not cover",
	} {
		if !strings.Contains(joined, want) {
			t.Errorf("warnings missing %q\n%s", want, joined)
		}
	}
	if strings.Contains(joined, "Debt 'visa'") || strings.Contains(joined, "Debt 'car'") {
		t.Errorf("healthy debts should not warn:\n%s", joined)
	}
}
