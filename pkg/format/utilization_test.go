package format

import "testing"

func TestUtilization(t *testing.T) {
	tests := []struct {
		percent  float64
		expected Tier
	}{
		{0, TierHealthy},
		{30, TierHealthy},
		{30.01, TierModerate},
		{50, TierModerate},
		{50.5, TierElevated},
		{75, TierElevated},
		{75.01, TierSevere},
		{140, TierSevere},
	}

	for _, tt := range tests {
		t.Run(tt.expected.String(), func(t *testing.T) {
			if tier := Utilization(tt.percent); tier != tt.expected {
				t.Errorf("Utilization(%v) = %s, expected %s", tt.percent, tier, tt.expected)
			}
		})
	}
}

func TestUtilizationColorsShareThresholds(t *testing.T) {
	for _, percent := range []float64{0, 30, 30.5, 50, 60, 75, 75.5, 100} {
		tier := Utilization(percent)
		if UtilizationColor(percent) != tierColors[tier][0] {
			t.Errorf("UtilizationColor(%v) does not match tier %s", percent, tier)
		}
		if UtilizationBackground(percent) != tierColors[tier][1] {
			t.Errorf("UtilizationBackground(%v) does not match tier %s", percent, tier)
		}
	}
	if UtilizationColor(30) == UtilizationColor(30.01) {
		t.Error("expected a color change just above 30%")
	}
}
