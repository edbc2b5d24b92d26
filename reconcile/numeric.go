package reconcile

import (
	"strings"

	"github.com/shopspring/decimal"
)

// lenientDecimal parses a user-edited decimal string. Empty or malformed
// input degrades to zero rather than an error: the engine treats it as
// "no value yet" so every computed figure stays well-defined.
//
// Applies uniformly to hours, rates, amounts, allowances, and tax rates.
func lenientDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero
	}
	return d
}

// ParseAmount is the exported lenient parser for callers outside the
// engine (API input, config) that need the same coercion rules.
func ParseAmount(s string) decimal.Decimal {
	return lenientDecimal(s)
}

// strictDecimal parses a decimal string without the lenient fallback.
// Used where a real number is a precondition, not just an input.
func strictDecimal(s string) (decimal.Decimal, bool) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	return d, err == nil
}
