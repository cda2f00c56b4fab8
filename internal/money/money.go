// Package money parses and formats the amounts found in statement exports.
package money

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// DefaultCurrency is the currency suffix of the supported exports.
const DefaultCurrency = "PLN"

// FormatError reports an amount that is not numeric once the currency suffix
// and thousands grouping are removed.
type FormatError struct {
	Value string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("invalid money value %q, expected <amount> <currency> like \"1 234,56 PLN\"", e.Value)
}

// Parse converts a value like "1 234,56 PLN" to a decimal.
// An empty currency skips suffix removal.
func Parse(s, currency string) (decimal.Decimal, error) {
	v := strings.TrimSpace(s)
	if currency != "" {
		v = strings.TrimSpace(strings.TrimSuffix(v, currency))
	}
	v = strings.ReplaceAll(v, ",", ".")
	v = strings.Map(func(r rune) rune {
		if r == ' ' || r == '\u00a0' || r == '\u202f' {
			return -1
		}
		return r
	}, v)

	if v == "" {
		return decimal.Zero, &FormatError{Value: s}
	}
	d, err := decimal.NewFromString(v)
	if err != nil {
		return decimal.Zero, &FormatError{Value: s}
	}
	return d, nil
}

// Format renders d with two decimal places and the currency suffix, e.g. "65.00 PLN".
func Format(d decimal.Decimal, currency string) string {
	if currency == "" {
		return d.StringFixed(2)
	}
	return d.StringFixed(2) + " " + currency
}
