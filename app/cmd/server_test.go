package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Rakhulsr/sho-storefront/app/configs"
	"github.com/Rakhulsr/sho-storefront/app/services"
	"github.com/Rakhulsr/sho-storefront/app/utils/metrics"
)

func TestNewPaymentGatewayCurrency(t *testing.T) {
	tests := []struct {
		name     string
		env      configs.ENV
		gateway  string
		rejected bool
	}{
		{
			name:     "midtrans with rupees",
			env:      configs.ENV{PaymentProvider: "midtrans", PaymentCurrency: "INR", MidtransServerKey: "SB-Mid-server-x"},
			rejected: true,
		},
		{
			name:    "midtrans with rupiah",
			env:     configs.ENV{PaymentProvider: "midtrans", PaymentCurrency: "IDR", MidtransServerKey: "SB-Mid-server-x"},
			gateway: "midtrans",
		},
		{
			name:    "stripe with rupees",
			env:     configs.ENV{PaymentProvider: "stripe", PaymentCurrency: "INR", StripeSecretKey: "sk_test_x", StripeWebhookSecret: "whsec_x"},
			gateway: "stripe",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gateway, err := newPaymentGateway(tt.env, zap.NewNop(), metrics.NewNop())
			if tt.rejected {
				assert.ErrorIs(t, err, services.ErrUnsupportedCurrency)
				assert.Nil(t, gateway)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.gateway, gateway.Name())
		})
	}
}
