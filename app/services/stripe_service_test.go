package services

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v83/webhook"
	"go.uber.org/zap"

	"github.com/Rakhulsr/sho-storefront/app/utils/metrics"
)

const testWebhookSecret = "whsec_test_secret"

func signedStripeCallback(payload string) *PaymentCallback {
	signed := webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{
		Payload: []byte(payload),
		Secret:  testWebhookSecret,
	})
	return &PaymentCallback{Payload: signed.Payload, Signature: signed.Header}
}

const succeededEvent = `{
  "id": "evt_test",
  "object": "event",
  "type": "payment_intent.succeeded",
  "data": {
    "object": {
      "id": "pi_123",
      "object": "payment_intent",
      "status": "succeeded",
      "amount": 101000,
      "amount_received": 101000,
      "currency": "inr",
      "latest_charge": "ch_123",
      "metadata": {"order_id": "order-1"}
    }
  }
}`

func TestStripeMinorUnits(t *testing.T) {
	svc := NewStripeService("sk_test_x", testWebhookSecret, zap.NewNop(), metrics.NewNop())
	minor, err := svc.MinorUnits(decimal.NewFromInt(1010), "inr")
	require.NoError(t, err)
	assert.Equal(t, int64(101000), minor)

	minor, err = svc.MinorUnits(decimal.NewFromInt(1010), "IDR")
	require.NoError(t, err)
	assert.Equal(t, int64(1010), minor)

	_, err = svc.MinorUnits(decimal.NewFromInt(1010), "")
	assert.ErrorIs(t, err, ErrUnsupportedCurrency)
}

func TestStripeVerifyWebhook(t *testing.T) {
	svc := NewStripeService("sk_test_x", testWebhookSecret, zap.NewNop(), metrics.NewNop())
	ctx := context.Background()

	t.Run("succeeded intent", func(t *testing.T) {
		verified, err := svc.VerifyCallback(ctx, signedStripeCallback(succeededEvent))
		require.NoError(t, err)
		assert.Equal(t, "pi_123", verified.GatewayOrderID)
		assert.Equal(t, "ch_123", verified.PaymentID)
		assert.Equal(t, "order-1", verified.OrderID)
		assert.Equal(t, int64(101000), verified.AmountMinor)
	})

	t.Run("bad signature", func(t *testing.T) {
		cb := signedStripeCallback(succeededEvent)
		cb.Signature = "t=1,v1=deadbeef"
		_, err := svc.VerifyCallback(ctx, cb)
		assert.ErrorIs(t, err, ErrPaymentVerification)
	})

	t.Run("other events are not payments", func(t *testing.T) {
		payload := `{"id": "evt_2", "object": "event", "type": "payment_intent.created", "data": {"object": {"id": "pi_9", "object": "payment_intent"}}}`
		_, err := svc.VerifyCallback(ctx, signedStripeCallback(payload))
		assert.ErrorIs(t, err, ErrPaymentNotCompleted)
	})
}
