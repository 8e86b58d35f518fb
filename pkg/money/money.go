// Package money formats decimal amounts the way the storefront displays them.
package money

import (
	"github.com/shopspring/decimal"
)

// Format renders an amount as "$" followed by two decimals, e.g. "$2.50".
func Format(amount decimal.Decimal) string {
	return "$" + amount.StringFixed(2)
}

// Positive reports whether a nullable amount is set and greater than zero.
func Positive(amount *decimal.Decimal) bool {
	return amount != nil && amount.IsPositive()
}
