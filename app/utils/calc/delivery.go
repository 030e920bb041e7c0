package calc

import "github.com/shopspring/decimal"

const (
	lowZoneMin = 600000
	lowZoneMax = 699999
)

var (
	LowZoneDeliveryCharge      = decimal.NewFromInt(60)
	StandardZoneDeliveryCharge = decimal.NewFromInt(90)
)

// DeliveryCharge picks the flat rate for a pincode. Both band bounds are
// exclusive; everything outside the band pays the standard rate.
func DeliveryCharge(pincode int) decimal.Decimal {
	if pincode > lowZoneMin && pincode < lowZoneMax {
		return LowZoneDeliveryCharge
	}
	return StandardZoneDeliveryCharge
}
