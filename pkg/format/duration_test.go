package format

import (
	"strings"
	"testing"

	"github.com/iwvelando/payoff-forecast/pkg/payoff"
)

func TestMonthsToYears(t *testing.T) {
	tests := []struct {
		name     string
		term     payoff.Term
		expected string
	}{
		{"Zero", payoff.Months(0), "0 mo"},
		{"Months only", payoff.Months(3), "3 mo"},
		{"One year", payoff.Months(12), "1 yr"},
		{"Year and months", payoff.Months(14), "1 yr 2 mo"},
		{"Several years", payoff.Months(30), "2 yr 6 mo"},
		{"Horizon", payoff.Months(360), "30 yr"},
		{"Never", payoff.Never, "never"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if result := MonthsToYears(tt.term); result != tt.expected {
				t.Errorf("MonthsToYears(%v) = %q, expected %q", tt.term, result, tt.expected)
			}
		})
	}
}

func TestMonthsToYearsNeverHasNoInfinityText(t *testing.T) {
	label := strings.ToLower(MonthsToYears(payoff.Never))
	if strings.Contains(label, "inf") || strings.Contains(label, "nan") {
		t.Errorf("unbounded label %q leaks a numeric sentinel", label)
	}
}
