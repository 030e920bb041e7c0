package configs

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultPaymentProvider(t *testing.T) {
	assert.Equal(t, "midtrans", DefaultPaymentProvider("IDR"))
	assert.Equal(t, "midtrans", DefaultPaymentProvider("idr"))
	assert.Equal(t, "stripe", DefaultPaymentProvider("INR"))
	assert.Equal(t, "stripe", DefaultPaymentProvider("USD"))
}

func TestLoadEnvPairsCurrencyWithGateway(t *testing.T) {
	t.Setenv("PAYMENT_PROVIDER", "")
	t.Setenv("PAYMENT_CURRENCY", "inr")

	env := LoadEnv()
	assert.Equal(t, "INR", env.PaymentCurrency)
	assert.Equal(t, "stripe", env.PaymentProvider)
}
