package output

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/iwvelando/payoff-forecast/internal/projection"
	"github.com/iwvelando/payoff-forecast/pkg/payoff"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func sampleReport(t *testing.T) projection.Report {
	t.Helper()
	debts := []projection.Debt{
		{
			ID:              "visa",
			Name:            "Visa",
			Kind:            projection.KindCard,
			Balance:         d("1200"),
			AnnualRate:      d("0.24"),
			Currency:        "USD",
			CreditLimit:     d("5000"),
			MinimumPolicy:   payoff.FlatMinimum(d("35")),
			DeclaredPayment: d("120"),
		},
		{
			ID:              "store",
			Name:            "Store card",
			Kind:            projection.KindCard,
			Balance:         d("2000"),
			AnnualRate:      d("0.30"),
			Currency:        "EUR",
			MinimumPolicy:   payoff.FlatMinimum(d("60")),
			DeclaredPayment: d("40"),
		},
	}
	report, err := projection.NewEngine(zap.NewNop(), 0).ProjectAll(debts)
	if err != nil {
		t.Fatalf("ProjectAll() error = %v", err)
	}
	return report
}

func TestPrettyFormat(t *testing.T) {
	report := sampleReport(t)

	var buf bytes.Buffer
	if err := PrettyFormat(&buf, report, 3); err != nil {
		t.Fatalf("PrettyFormat() error = %v", err)
	}
	out := buf.String()

	expected := []string{
		"--- Results for Visa (visa, card) ---",
		"Starting balance:      $1,200.00",
		"Plan payoff:           1 yr,",
		"Utilization:           24.00% (healthy)",
		"... 9 more months",
		"--- Results for Store card (store, card) ---",
		"Plan payoff:           never, interest unbounded",
		"Note: payment too low",
		"=== Portfolio ===",
		"Longest payoff: never",
		"EUR: 1 debts, balance €2,000.00, total interest never",
	}
	for _, want := range expected {
		if !strings.Contains(out, want) {
			t.Errorf("pretty output missing %q\n%s", want, out)
		}
	}

	if strings.Count(out, "Month | Purchase") != 1 {
		t.Error("only the converging debt should list a schedule")
	}
}

func TestPrettyFormatSingleDebtOmitsPortfolio(t *testing.T) {
	report := sampleReport(t)
	report.Projections = report.Projections[:1]

	var buf bytes.Buffer
	if err := PrettyFormat(&buf, report, 0); err != nil {
		t.Fatalf("PrettyFormat() error = %v", err)
	}
	if strings.Contains(buf.String(), "Portfolio") {
		t.Error("single-debt output should not include a portfolio section")
	}
	if strings.Contains(buf.String(), "more months") {
		t.Error("rows <= 0 should list every month")
	}
}

func TestCsvString(t *testing.T) {
	report := sampleReport(t)

	out, err := CsvString(report, 0)
	if err != nil {
		t.Fatalf("CsvString() error = %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")

	// Header, twelve plan months for visa, one never row for store.
	if len(lines) != 14 {
		t.Fatalf("expected 14 lines, got %d:\n%s", len(lines), out)
	}
	if lines[0] != "debt,currency,month,purchase,payment,interest,balance" {
		t.Errorf("unexpected header %q", lines[0])
	}
	if lines[1] != "visa,USD,1,0.00,120.00,24.00,1104.00" {
		t.Errorf("unexpected first row %q", lines[1])
	}
	if !strings.HasSuffix(lines[12], ",0.00") {
		t.Errorf("final visa row should end at zero, got %q", lines[12])
	}
	if lines[13] != "store,EUR,never,,,,2000.00" {
		t.Errorf("unexpected never row %q", lines[13])
	}
}

func TestCsvFormatRowLimit(t *testing.T) {
	report := sampleReport(t)
	out, err := CsvString(report, 2)
	if err != nil {
		t.Fatalf("CsvString() error = %v", err)
	}
	if got := strings.Count(out, "\nvisa,"); got != 2 {
		t.Errorf("expected 2 visa rows, got %d", got)
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestPrettyFormatWriteError(t *testing.T) {
	err := PrettyFormat(failingWriter{}, sampleReport(t), 1)
	if err == nil || err.Error() != "disk full" {
		t.Errorf("expected write error, got %v", err)
	}
}
