package calc

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestDeliveryCharge(t *testing.T) {
	tests := []struct {
		pincode int
		want    int64
	}{
		{600001, 60},
		{650000, 60},
		{699998, 60},
		{600000, 90},
		{699999, 90},
		{110001, 90},
		{0, 90},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DeliveryCharge(tt.pincode).IntPart(), "pincode %d", tt.pincode)
	}
}

func TestDiscountedAndOriginalPrice(t *testing.T) {
	tests := []struct {
		list     string
		discount int
		price    string
	}{
		{"1000", 0, "1000"},
		{"1000", 5, "950"},
		{"999.99", 15, "849.99"},
		{"199", 33, "133.33"},
		{"500", 100, "0"},
	}
	for _, tt := range tests {
		price := DiscountedPrice(d(tt.list), tt.discount)
		assert.True(t, d(tt.price).Equal(price), "%s at %d%% gave %s", tt.list, tt.discount, price)
	}

	assert.True(t, d("1000").Equal(OriginalPrice(d("950"), 5)))
	assert.True(t, d("198.99").Equal(OriginalPrice(d("133.32"), 33)))
	assert.True(t, d("0").Equal(OriginalPrice(d("0"), 100)), "100% has nothing to recover")
	assert.True(t, d("42").Equal(OriginalPrice(d("42"), 0)))
}

func TestOrderDiscount(t *testing.T) {
	assert.True(t, d("50").Equal(OrderDiscount(d("1000"), OrderDiscountRate(false))))
	assert.True(t, d("100").Equal(OrderDiscount(d("1000"), OrderDiscountRate(true))))
	assert.True(t, d("49").Equal(OrderDiscount(d("999.99"), FirstOrderDiscountRate)), "floored")
}

func TestRounding(t *testing.T) {
	assert.True(t, d("2.35").Equal(QuantizeHalfUp(d("2.345"), 2)))
	assert.True(t, d("2.34").Equal(QuantizeHalfUp(d("2.3449"), 2)))
	assert.True(t, d("10").Equal(Truncate(d("10.99"))))
	assert.True(t, d("11").Equal(Ceil(d("10.01"))))
	assert.True(t, d("10").Equal(Ceil(d("10"))))
}

func TestPoints(t *testing.T) {
	accrued := LinePoints(d("333.33"), 3).Add(LinePoints(d("0.50"), 1))
	// 9.9999 + 0.005 = 10.0049
	assert.Equal(t, int64(10), PointsFromAccrual(accrued))
	assert.Equal(t, int64(9), PointsFromAccrual(d("9.99")))
}

func TestToMinorUnits(t *testing.T) {
	assert.Equal(t, int64(101000), ToMinorUnits(d("1010"), 2))
	assert.Equal(t, int64(1011), ToMinorUnits(d("10.105"), 2))
	assert.Equal(t, int64(1010), ToMinorUnits(d("1010"), 0))
}
