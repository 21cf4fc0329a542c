package format

import "github.com/iwvelando/payoff-forecast/pkg/constants"

// Tier classifies credit utilization.
type Tier int

const (
	TierHealthy Tier = iota
	TierModerate
	TierElevated
	TierSevere
)

// String returns the tier name.
func (t Tier) String() string {
	switch t {
	case TierHealthy:
		return "healthy"
	case TierModerate:
		return "moderate"
	case TierElevated:
		return "elevated"
	default:
		return "severe"
	}
}

// tierColors holds the foreground and background color per tier.
var tierColors = map[Tier][2]string{
	TierHealthy:  {"#16a34a", "#dcfce7"},
	TierModerate: {"#ca8a04", "#fef9c3"},
	TierElevated: {"#ea580c", "#ffedd5"},
	TierSevere:   {"#dc2626", "#fee2e2"},
}

// Utilization maps a utilization percentage to its tier. Values on a
// threshold belong to the lower tier.
func Utilization(percent float64) Tier {
	switch {
	case percent <= constants.UtilizationHealthyMax:
		return TierHealthy
	case percent <= constants.UtilizationModerateMax:
		return TierModerate
	case percent <= constants.UtilizationElevatedMax:
		return TierElevated
	default:
		return TierSevere
	}
}

// UtilizationColor returns the text color for a utilization percentage.
func UtilizationColor(percent float64) string {
	return tierColors[Utilization(percent)][0]
}

// UtilizationBackground returns the background color for a utilization
// percentage.
func UtilizationBackground(percent float64) string {
	return tierColors[Utilization(percent)][1]
}
