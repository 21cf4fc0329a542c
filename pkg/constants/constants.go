// Package constants provides shared constants for the payoff-forecast application.
package constants

// Financial constants
const (
	// MonthsPerYear is the number of months in a year
	MonthsPerYear = 12

	// DecimalPrecision is the number of decimal places used to display currency
	DecimalPrecision = 2

	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100.0

	// CurrencyTolerance is the tolerance for currency comparisons (1 cent)
	CurrencyTolerance = 0.01
)

// Simulation constants
const (
	// DefaultMaxMonths is the simulation horizon (30 years) after which a
	// schedule is reported as never paying off.
	DefaultMaxMonths = 360

	// SuggestedPayoffMonths is the amortization term used for the
	// "pay off in 3 years" quick-pick suggestion.
	SuggestedPayoffMonths = 36

	// DefaultBreakdownRows caps how many breakdown rows are rendered.
	DefaultBreakdownRows = 60
)

// Utilization tier upper bounds, in percent. Values equal to a bound fall
// into the lower tier.
const (
	UtilizationHealthyMax  = 30.0
	UtilizationModerateMax = 50.0
	UtilizationElevatedMax = 75.0
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "config.yaml"

	// DefaultServerConfigFile is the default server configuration file name
	DefaultServerConfigFile = "server-config.yaml"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address
	DefaultServerAddress = ":8080"

	// DefaultMaxUploadSizeBytes is the default maximum request body size (256 KB)
	DefaultMaxUploadSizeBytes int64 = 256 * 1024

	// DefaultDatabasePath is where saved scenarios are stored when unset
	DefaultDatabasePath = "data/scenarios.db"
)

// FallbackCurrency is assumed when a debt declares no currency.
const FallbackCurrency = "USD"
