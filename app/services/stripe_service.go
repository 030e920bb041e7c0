package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v83"
	"github.com/stripe/stripe-go/v83/paymentintent"
	"github.com/stripe/stripe-go/v83/webhook"
	"go.uber.org/zap"

	"github.com/Rakhulsr/sho-storefront/app/utils/calc"
	"github.com/Rakhulsr/sho-storefront/app/utils/metrics"
)

type StripeService struct {
	webhookSecret string
	log           *zap.Logger
	metrics       *metrics.Metrics
}

func NewStripeService(secretKey, webhookSecret string, log *zap.Logger, m *metrics.Metrics) *StripeService {
	stripe.Key = secretKey
	return &StripeService{webhookSecret: webhookSecret, log: log, metrics: m}
}

func (s *StripeService) Name() string { return "stripe" }

func (s *StripeService) MinorUnits(amount decimal.Decimal, currency string) (int64, error) {
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if len(currency) != 3 {
		return 0, fmt.Errorf("%w: %q is not an ISO 4217 code", ErrUnsupportedCurrency, currency)
	}
	return calc.ToMinorUnits(amount, currencyExponent(currency)), nil
}

func (s *StripeService) CreateOrder(ctx context.Context, req CreateOrderRequest) (*GatewayOrder, error) {
	defer s.metrics.TrackGatewayCall(s.Name(), "create_order")()

	metadata := map[string]string{
		"order_id":   req.OrderID,
		"order_code": req.OrderCode,
	}
	for k, v := range req.Metadata {
		metadata[k] = v
	}

	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(req.AmountMinor),
		Currency: stripe.String(strings.ToLower(req.Currency)),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
		Metadata: metadata,
	}
	if req.Customer.Email != "" {
		params.ReceiptEmail = stripe.String(req.Customer.Email)
	}
	params.Context = ctx
	params.SetIdempotencyKey("order-" + req.OrderID)

	intent, err := paymentintent.New(params)
	if err != nil {
		return nil, fmt.Errorf("%w: stripe payment intent: %v", ErrGatewayUnavailable, err)
	}
	return &GatewayOrder{GatewayOrderID: intent.ID, ClientSecret: intent.ClientSecret}, nil
}

// VerifyCallback accepts either a signed webhook (Payload set, Signature is
// the Stripe-Signature header) or a client redirect carrying only the intent
// id, which is then looked up through the API.
func (s *StripeService) VerifyCallback(ctx context.Context, cb *PaymentCallback) (*VerifiedPayment, error) {
	defer s.metrics.TrackGatewayCall(s.Name(), "verify_callback")()

	if len(cb.Payload) > 0 {
		return s.verifyWebhook(cb)
	}
	if cb.GatewayOrderID == "" {
		return nil, fmt.Errorf("%w: missing payment intent id", ErrPaymentVerification)
	}

	params := &stripe.PaymentIntentParams{}
	params.Context = ctx
	intent, err := paymentintent.Get(cb.GatewayOrderID, params)
	if err != nil {
		return nil, fmt.Errorf("%w: stripe payment intent lookup: %v", ErrGatewayUnavailable, err)
	}
	return s.fromIntent(intent, cb.OrderID)
}

func (s *StripeService) verifyWebhook(cb *PaymentCallback) (*VerifiedPayment, error) {
	event, err := webhook.ConstructEventWithOptions(cb.Payload, cb.Signature, s.webhookSecret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPaymentVerification, err)
	}
	if event.Type != stripe.EventTypePaymentIntentSucceeded {
		return nil, fmt.Errorf("%w: ignoring stripe event %s", ErrPaymentNotCompleted, event.Type)
	}

	var intent stripe.PaymentIntent
	if err := json.Unmarshal(event.Data.Raw, &intent); err != nil {
		return nil, fmt.Errorf("%w: decode payment intent: %v", ErrPaymentVerification, err)
	}
	return s.fromIntent(&intent, cb.OrderID)
}

func (s *StripeService) fromIntent(intent *stripe.PaymentIntent, orderID string) (*VerifiedPayment, error) {
	if intent.Status != stripe.PaymentIntentStatusSucceeded {
		return nil, fmt.Errorf("%w: payment intent %s is %s", ErrPaymentNotCompleted, intent.ID, intent.Status)
	}
	if metaOrder := intent.Metadata["order_id"]; metaOrder != "" {
		if orderID != "" && orderID != metaOrder {
			return nil, fmt.Errorf("%w: payment intent %s belongs to another order", ErrPaymentVerification, intent.ID)
		}
		orderID = metaOrder
	}

	paymentID := intent.ID
	if intent.LatestCharge != nil && intent.LatestCharge.ID != "" {
		paymentID = intent.LatestCharge.ID
	}
	amount := intent.AmountReceived
	if amount == 0 {
		amount = intent.Amount
	}
	return &VerifiedPayment{
		GatewayOrderID: intent.ID,
		PaymentID:      paymentID,
		OrderID:        orderID,
		AmountMinor:    amount,
		HasAmount:      true,
	}, nil
}
