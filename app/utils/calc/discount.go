package calc

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

var (
	FirstOrderDiscountRate = decimal.NewFromInt(5)
	StandardDiscountRate   = decimal.NewFromInt(10)
)

func CalculateDiscount(baseTotal, discountPercent decimal.Decimal) decimal.Decimal {
	return baseTotal.Mul(discountPercent).Div(hundred)
}

// DiscountedPrice is the value stored as a product's price:
// list - list*discount/100, half-up to 2 places.
func DiscountedPrice(listPrice decimal.Decimal, discount int) decimal.Decimal {
	off := CalculateDiscount(listPrice, decimal.NewFromInt(int64(discount)))
	return QuantizeHalfUp(listPrice.Sub(off), 2)
}

// OriginalPrice inverts DiscountedPrice. A 0 or 100 percent discount has
// nothing to recover and returns price as is.
func OriginalPrice(price decimal.Decimal, discount int) decimal.Decimal {
	if discount <= 0 || discount >= 100 {
		return price
	}
	factor := decimal.NewFromInt(int64(100 - discount)).Div(hundred)
	return QuantizeHalfUp(price.DivRound(factor, 8), 2)
}

func OrderDiscountRate(firstOrderOfferUsed bool) decimal.Decimal {
	if firstOrderOfferUsed {
		return StandardDiscountRate
	}
	return FirstOrderDiscountRate
}

// OrderDiscount is floor(subtotal * rate / 100).
func OrderDiscount(subtotal, rate decimal.Decimal) decimal.Decimal {
	return Truncate(CalculateDiscount(subtotal, rate))
}
