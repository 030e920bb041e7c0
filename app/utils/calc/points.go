package calc

import "github.com/shopspring/decimal"

var pointsRate = decimal.NewFromInt(1)

// LinePoints is the loyalty accrual for one line, 1% of price x qty,
// unrounded. Callers sum lines and floor once with PointsFromAccrual.
func LinePoints(price decimal.Decimal, qty int) decimal.Decimal {
	return CalculateDiscount(price.Mul(decimal.NewFromInt(int64(qty))), pointsRate)
}

func PointsFromAccrual(accrued decimal.Decimal) int64 {
	return Truncate(accrued).IntPart()
}

// ToMinorUnits converts a whole-unit amount into the gateway's smallest unit.
func ToMinorUnits(amount decimal.Decimal, exponent int32) int64 {
	return amount.Shift(exponent).Round(0).IntPart()
}
