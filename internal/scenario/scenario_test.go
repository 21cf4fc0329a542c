package scenario

import (
	"errors"
	"testing"

	"github.com/iwvelando/payoff-forecast/internal/projection"
	"github.com/iwvelando/payoff-forecast/pkg/payoff"
	"github.com/shopspring/decimal"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestFromProjection(t *testing.T) {
	converged, err := payoff.SimulateFixed(d("1200"), d("0.24"), d("120"), 360, nil)
	if err != nil {
		t.Fatalf("SimulateFixed() error = %v", err)
	}

	tests := []struct {
		name       string
		plan       projection.Plan
		result     payoff.Result
		wantMonths *int
		wantErr    bool
	}{
		{
			name:   "fixed plan that converges",
			plan:   projection.Plan{Strategy: projection.StrategyFixed, Fixed: payoff.FixedPlan{Amount: d("120")}},
			result: converged,
		},
		{
			name: "variable plan that never pays off",
			plan: projection.Plan{
				Strategy: projection.StrategyVariable,
				Variable: payoff.VariablePlan{Overrides: payoff.Schedule{1: d("300")}, Default: d("10")},
			},
			result: payoff.NeverPaysOff(),
		},
		{
			name:    "no plan selected",
			plan:    projection.Plan{Strategy: projection.StrategyNone},
			result:  converged,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sc, err := FromProjection("visa", tt.plan, tt.result)
			if tt.wantErr {
				if !errors.Is(err, payoff.ErrInvalidArgument) {
					t.Errorf("expected ErrInvalidArgument, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("FromProjection() error = %v", err)
			}
			if sc.Strategy != tt.plan.Strategy || sc.DebtID != "visa" {
				t.Errorf("unexpected scenario %+v", sc)
			}
			if tt.result.Converged() {
				if sc.Months == nil || *sc.Months != tt.result.Months.Count() {
					t.Errorf("months = %v, expected %d", sc.Months, tt.result.Months.Count())
				}
				if sc.TotalInterest == nil || !sc.TotalInterest.Equal(tt.result.TotalInterest) {
					t.Errorf("interest = %v, expected %s", sc.TotalInterest, tt.result.TotalInterest)
				}
			} else if sc.Months != nil || sc.TotalInterest != nil {
				t.Error("non-convergent scenario should have nil months and interest")
			}
			if sc.Term() != tt.result.Months {
				t.Errorf("term = %s, expected %s", sc.Term(), tt.result.Months)
			}
		})
	}
}

func TestFromProjectionRequiresDebtID(t *testing.T) {
	plan := projection.Plan{Strategy: projection.StrategyFixed, Fixed: payoff.FixedPlan{Amount: d("1")}}
	if _, err := FromProjection("", plan, payoff.NeverPaysOff()); !errors.Is(err, payoff.ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestScenarioPlanRoundTrip(t *testing.T) {
	plan := projection.Plan{
		Strategy: projection.StrategyVariable,
		Variable: payoff.VariablePlan{Overrides: payoff.Schedule{3: d("0")}, Default: d("75")},
	}
	sc, err := FromProjection("visa", plan, payoff.NeverPaysOff())
	if err != nil {
		t.Fatalf("FromProjection() error = %v", err)
	}

	plan.Variable.Overrides[3] = d("999")
	rebuilt := sc.Plan()
	if rebuilt.Strategy != projection.StrategyVariable || !rebuilt.Variable.Default.Equal(d("75")) {
		t.Errorf("unexpected plan %+v", rebuilt)
	}
	if !rebuilt.Variable.PaymentFor(3).IsZero() {
		t.Error("scenario overrides should be copied, not shared")
	}

	fixed := Scenario{Strategy: projection.StrategyFixed, FixedAmount: d("50")}
	if got := fixed.Plan(); got.Strategy != projection.StrategyFixed || !got.Fixed.Amount.Equal(d("50")) {
		t.Errorf("unexpected fixed plan %+v", got)
	}
}
