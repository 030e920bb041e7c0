package calc

import "github.com/shopspring/decimal"

// Each money computation names its rounding mode at the call site.

// QuantizeHalfUp rounds half away from zero to places decimals. Prices are
// non-negative so this matches half-up.
func QuantizeHalfUp(d decimal.Decimal, places int32) decimal.Decimal {
	return d.Round(places)
}

// Truncate drops the fractional part toward zero.
func Truncate(d decimal.Decimal) decimal.Decimal {
	return d.Truncate(0)
}

// Ceil rounds up to the next whole unit.
func Ceil(d decimal.Decimal) decimal.Decimal {
	return d.Ceil()
}
