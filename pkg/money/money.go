// Package money converts between display amounts and the integer cent
// values stored in the database. All arithmetic on order totals happens
// in cents; decimals exist only at the API boundary.
package money

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ParseCents converts a decimal amount string such as "12.50" into cents.
// Amounts with more than two fractional digits are rejected.
func ParseCents(amount string) (int, error) {
	trimmed := strings.TrimSpace(amount)
	if trimmed == "" {
		return 0, fmt.Errorf("amount is required")
	}
	dec, err := decimal.NewFromString(trimmed)
	if err != nil {
		return 0, fmt.Errorf("parsing amount %q: %w", trimmed, err)
	}
	if dec.IsNegative() {
		return 0, fmt.Errorf("amount %q must not be negative", trimmed)
	}
	cents := dec.Shift(2)
	if !cents.IsInteger() {
		return 0, fmt.Errorf("amount %q has sub-cent precision", trimmed)
	}
	return int(cents.IntPart()), nil
}

// FormatCents renders cents as a two-decimal amount string, e.g. 1250 -> "12.50".
func FormatCents(cents int) string {
	return decimal.NewFromInt(int64(cents)).Shift(-2).StringFixed(2)
}
