// Package testutil provides common utility functions for testing.
package testutil

import (
	"github.com/iwvelando/payoff-forecast/internal/projection"
	"github.com/shopspring/decimal"
)

// FindProjection finds a debt's projection by ID in the report.
// Returns a pointer to the projection if found, nil otherwise.
func FindProjection(report projection.Report, debtID string) *projection.Projection {
	for i := range report.Projections {
		if report.Projections[i].DebtID == debtID {
			return &report.Projections[i]
		}
	}
	return nil
}

// Decimal parses s and panics on malformed input, for literals in tests.
func Decimal(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
