// Package format renders money, payoff durations and utilization tiers for
// display.
package format

import (
	"strings"

	"github.com/iwvelando/payoff-forecast/pkg/constants"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

// symbols holds the display symbol for currencies users commonly enter.
// Known ISO codes without an entry are prefixed with the code itself.
var symbols = map[string]string{
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
	"JPY": "¥",
	"CNY": "CN¥",
	"INR": "₹",
	"KRW": "₩",
	"CAD": "CA$",
	"AUD": "A$",
	"NZD": "NZ$",
	"MXN": "MX$",
	"BRL": "R$",
	"ILS": "₪",
	"PHP": "₱",
	"VND": "₫",
	"NGN": "₦",
}

// Currency formats amount in the given ISO-4217 currency, e.g. "$1,234.56",
// "€99.90", "¥1,235" or "CHF 12.00". Codes missing from the ISO table,
// including empty ones, use a "$"-prefixed two-decimal format.
func Currency(amount decimal.Decimal, code string) string {
	unit, ok := lookup(code)
	if !ok {
		return fallbackCurrency(amount)
	}

	scale, _ := currency.Standard.Rounding(unit)
	prefix, ok := symbols[unit.String()]
	if !ok {
		prefix = unit.String() + " "
	}

	formatted := groupDigits(amount.Abs().StringFixed(int32(scale)))
	if amount.Round(int32(scale)).IsNegative() {
		return "-" + prefix + formatted
	}
	return prefix + formatted
}

// NumericCurrency returns a two-decimal amount without a currency symbol but
// with separators (e.g., "-1,234.56").
func NumericCurrency(amount decimal.Decimal) string {
	formatted := groupDigits(amount.Abs().StringFixed(constants.DecimalPrecision))
	if amount.Round(constants.DecimalPrecision).IsNegative() {
		return "-" + formatted
	}
	return formatted
}

// KnownCurrency reports whether code is a recognised ISO-4217 code.
func KnownCurrency(code string) bool {
	_, ok := lookup(code)
	return ok
}

func lookup(code string) (currency.Unit, bool) {
	normalized := strings.ToUpper(strings.TrimSpace(code))
	if len(normalized) != 3 {
		return currency.Unit{}, false
	}
	unit, err := currency.ParseISO(normalized)
	if err != nil {
		return currency.Unit{}, false
	}
	return unit, true
}

func fallbackCurrency(amount decimal.Decimal) string {
	formatted := NumericCurrency(amount)
	if strings.HasPrefix(formatted, "-") {
		return "-$" + formatted[1:]
	}
	return "$" + formatted
}

// groupDigits inserts thousands separators into a non-negative fixed-point
// string.
func groupDigits(fixed string) string {
	intPart, decPart, hasDecimals := strings.Cut(fixed, ".")

	if len(intPart) > 3 {
		var builder strings.Builder
		for i, digit := range intPart {
			if i > 0 && (len(intPart)-i)%3 == 0 {
				builder.WriteByte(',')
			}
			builder.WriteRune(digit)
		}
		intPart = builder.String()
	}

	if !hasDecimals {
		return intPart
	}
	return intPart + "." + decPart
}
