package money

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Zero is the additive identity at currency scale.
var Zero = decimal.New(0, -2)

// Parse converts an EDI monetary element into a decimal amount.
// Empty input is an error; callers that allow a default must apply it first.
func Parse(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Decimal{}, fmt.Errorf("empty monetary value")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("parse monetary value %q: %w", s, err)
	}
	return d, nil
}

// ParseOr parses s, substituting def when s is empty.
func ParseOr(s, def string) (decimal.Decimal, error) {
	if strings.TrimSpace(s) == "" {
		s = def
	}
	return Parse(s)
}

// MustParse is for literals in tests and fixtures.
func MustParse(s string) decimal.Decimal {
	d, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return d
}

// Sum adds amounts exactly.
func Sum(amounts ...decimal.Decimal) decimal.Decimal {
	total := Zero
	for _, a := range amounts {
		total = total.Add(a)
	}
	return total
}

// Equal reports exact equality at two decimal places. Both sides are
// rounded to cents first so "85" and "85.00" compare equal.
func Equal(a, b decimal.Decimal) bool {
	return a.Round(2).Equal(b.Round(2))
}

// Avg divides total by n at four decimal places. Reporting only; the
// validation cascade never divides.
func Avg(total decimal.Decimal, n int64) decimal.Decimal {
	if n == 0 {
		return Zero
	}
	return total.DivRound(decimal.NewFromInt(n), 4)
}

// Cents returns the amount as integer cents, rounding half away from zero.
func Cents(a decimal.Decimal) int64 {
	return a.Round(2).Shift(2).IntPart()
}

// Format renders an amount at currency scale, e.g. "85.00".
func Format(a decimal.Decimal) string {
	return a.StringFixed(2)
}

// FormatCurrency is the display-layer rendering, e.g. "USD 85.00".
// Kept as a pure function so no locale state leaks into the core.
func FormatCurrency(a decimal.Decimal, code string) string {
	return fmt.Sprintf("%s %s", code, a.StringFixed(2))
}
