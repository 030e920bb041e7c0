package services

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rakhulsr/sho-storefront/app/models"
)

func TestCalculateQuote(t *testing.T) {
	tests := []struct {
		name         string
		in           PricingInput
		wantTotal    int64
		wantDiscount int64
		wantRedeemed int64
	}{
		{
			name:         "first order in the low rate zone",
			in:           PricingInput{Subtotal: decimal.NewFromInt(1000), Pincode: 600001},
			wantTotal:    1010,
			wantDiscount: 50,
		},
		{
			name:         "vip gets the delivery charge back",
			in:           PricingInput{Subtotal: decimal.NewFromInt(1000), Pincode: 600001, IsVIP: true},
			wantTotal:    950,
			wantDiscount: 50,
		},
		{
			name:         "returning customer outside the zone",
			in:           PricingInput{Subtotal: decimal.NewFromInt(1000), FirstOrderOfferUsed: true, Pincode: 110001},
			wantTotal:    990,
			wantDiscount: 100,
		},
		{
			name:         "zone bounds are exclusive",
			in:           PricingInput{Subtotal: decimal.NewFromInt(1000), Pincode: 600000},
			wantTotal:    1040,
			wantDiscount: 50,
		},
		{
			name:         "discount is floored",
			in:           PricingInput{Subtotal: decimal.RequireFromString("999.99"), Pincode: 600001},
			wantTotal:    1011,
			wantDiscount: 49,
		},
		{
			name: "redemption limited by balance",
			in: PricingInput{
				Subtotal: decimal.NewFromInt(1000), Pincode: 600001,
				PointsBalance: 30, RequestedPoints: 100,
			},
			wantTotal:    980,
			wantDiscount: 50,
			wantRedeemed: 30,
		},
		{
			name: "redemption limited by running total",
			in: PricingInput{
				Subtotal: decimal.RequireFromString("100.50"), Pincode: 600001,
				PointsBalance: 1000, RequestedPoints: 1000,
			},
			// 100.50 - 5 = 95.50, floor -> 95 points, 0.50 + 60 = 60.50 -> 61
			wantTotal:    61,
			wantDiscount: 5,
			wantRedeemed: 95,
		},
		{
			name: "negative request redeems nothing",
			in: PricingInput{
				Subtotal: decimal.NewFromInt(1000), Pincode: 600001,
				PointsBalance: 100, RequestedPoints: -5,
			},
			wantTotal:    1010,
			wantDiscount: 50,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := CalculateQuote(tt.in)
			assert.True(t, decimal.NewFromInt(tt.wantTotal).Equal(q.Total), "total %s", q.Total)
			assert.True(t, decimal.NewFromInt(tt.wantDiscount).Equal(q.Discount), "discount %s", q.Discount)
			assert.Equal(t, tt.wantRedeemed, q.RedeemedPoints)
			assert.True(t, q.Total.Equal(q.Total.Truncate(0)), "total is a whole amount")
		})
	}
}

func TestPricingServiceVIP(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for i := 0; i < VIPOrderThreshold; i++ {
		order := &models.Order{
			UserID:    f.user.ID,
			OrderCode: "SHO-VIP-" + string(rune('A'+i)),
			Status:    models.OrderStatusConfirmed,
			Address:   "12 MG Road",
			Phone:     "9876543210",
			Pincode:   "600001",
			Currency:  "IDR",
		}
		require.NoError(t, f.orderRepo.Create(ctx, nil, order))
	}

	state, err := f.pricing.LoyaltyState(ctx, f.user.ID)
	require.NoError(t, err)
	assert.True(t, state.IsVIP)
	assert.Equal(t, int64(VIPOrderThreshold), state.ConfirmedOrders)

	q, _, err := f.pricing.Quote(ctx, f.user.ID, decimal.NewFromInt(1000), 600001, 0)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(950).Equal(q.Total))
}

func TestLoyaltyStateAnonymous(t *testing.T) {
	f := newFixture(t)
	state, err := f.pricing.LoyaltyState(context.Background(), "")
	require.NoError(t, err)
	assert.False(t, state.IsVIP)
	assert.Zero(t, state.Points)

	var profiles int64
	require.NoError(t, f.db.Model(&models.Profile{}).Count(&profiles).Error)
	assert.Equal(t, int64(1), profiles, "only the fixture user has a profile")
}
