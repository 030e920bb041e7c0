package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Rakhulsr/sho-storefront/app/models"
)

// ErrPaymentNotCompleted marks an authentic callback for a payment that has
// not settled yet (pending, denied, expired). Nothing is confirmed.
var ErrPaymentNotCompleted = errors.New("payment not completed")

// ErrUnsupportedCurrency means the gateway cannot charge in the configured
// currency.
var ErrUnsupportedCurrency = errors.New("currency not supported by payment gateway")

type CustomerDetails struct {
	Name  string
	Email string
	Phone string
}

type CreateOrderRequest struct {
	OrderID     string
	OrderCode   string
	Amount      decimal.Decimal
	AmountMinor int64
	Currency    string
	Customer    CustomerDetails
	Address     string
	Pincode     string
	Lines       []models.OrderLine
	Metadata    map[string]string
}

type GatewayOrder struct {
	GatewayOrderID string `json:"gateway_order_id"`
	Token          string `json:"token,omitempty"`
	RedirectURL    string `json:"redirect_url,omitempty"`
	ClientSecret   string `json:"client_secret,omitempty"`
}

// PaymentCallback is everything a gateway may send back. Each gateway reads
// the fields its scheme uses.
type PaymentCallback struct {
	OrderID           string `json:"order_id"`
	GatewayOrderID    string `json:"gateway_order_id"`
	PaymentID         string `json:"payment_id"`
	Signature         string `json:"signature"`
	StatusCode        string `json:"status_code"`
	GrossAmount       string `json:"gross_amount"`
	TransactionStatus string `json:"transaction_status"`
	FraudStatus       string `json:"fraud_status"`
	Payload           []byte `json:"-"`
}

type VerifiedPayment struct {
	GatewayOrderID string
	PaymentID      string
	OrderID        string
	AmountMinor    int64
	HasAmount      bool
}

type PaymentGateway interface {
	Name() string
	// MinorUnits converts a whole-currency total into the integer amount
	// the gateway charges, or fails with ErrUnsupportedCurrency.
	MinorUnits(amount decimal.Decimal, currency string) (int64, error)
	CreateOrder(ctx context.Context, req CreateOrderRequest) (*GatewayOrder, error)
	VerifyCallback(ctx context.Context, cb *PaymentCallback) (*VerifiedPayment, error)
}

// callWithTimeout bounds SDK calls that do not accept a context. On timeout
// the caller returns but fn keeps running; the SDK's own http.Client timeout
// (configs.NewMidtransClients) is what finally stops it.
func callWithTimeout[T any](ctx context.Context, timeout time.Duration, fn func() (T, error)) (T, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	type result struct {
		val T
		err error
	}
	done := make(chan result, 1)
	go func() {
		v, err := fn()
		done <- result{v, err}
	}()

	select {
	case r := <-done:
		return r.val, r.err
	case <-ctx.Done():
		var zero T
		return zero, fmt.Errorf("%w: %v", ErrGatewayUnavailable, ctx.Err())
	}
}

// currencyExponent is the number of minor-unit digits ISO 4217 assigns.
func currencyExponent(currency string) int32 {
	switch currency {
	case "IDR", "JPY", "KRW", "VND":
		return 0
	default:
		return 2
	}
}
