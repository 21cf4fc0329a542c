package format

import (
	"fmt"

	"github.com/iwvelando/payoff-forecast/pkg/constants"
	"github.com/iwvelando/payoff-forecast/pkg/payoff"
)

// NeverLabel is shown for a schedule that never pays off.
const NeverLabel = "never"

// MonthsToYears renders a payoff term as years and months, e.g. "3 mo",
// "1 yr", "1 yr 2 mo".
func MonthsToYears(term payoff.Term) string {
	if !term.Finite() {
		return NeverLabel
	}

	months := term.Count()
	if months < 0 {
		months = 0
	}
	years := months / constants.MonthsPerYear
	remainder := months % constants.MonthsPerYear

	switch {
	case years == 0:
		return fmt.Sprintf("%d mo", remainder)
	case remainder == 0:
		return fmt.Sprintf("%d yr", years)
	default:
		return fmt.Sprintf("%d yr %d mo", years, remainder)
	}
}
