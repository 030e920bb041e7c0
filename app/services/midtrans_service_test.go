package services

import (
	"context"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/coreapi"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Rakhulsr/sho-storefront/app/models"
	"github.com/Rakhulsr/sho-storefront/app/utils/metrics"
)

type fakeStatus struct {
	resp *coreapi.TransactionStatusResponse
	err  *midtrans.Error
}

func (f *fakeStatus) CheckTransaction(param string) (*coreapi.TransactionStatusResponse, *midtrans.Error) {
	return f.resp, f.err
}

func TestMidtransSignature(t *testing.T) {
	// sha512("ORDER-1" + "200" + "1010.00" + "key")
	sig := MidtransSignature("ORDER-1", "200", "1010.00", "key")
	assert.Len(t, sig, 128)
	assert.Equal(t, sig, MidtransSignature("ORDER-1", "200", "1010.00", "key"))
	assert.NotEqual(t, sig, MidtransSignature("ORDER-1", "200", "1010.00", "other"))
}

func TestMidtransCreateOrder(t *testing.T) {
	fs := &fakeSnap{}
	svc := NewMidtransService(fs, nil, testServerKey, "https://shop.example/", 0, zap.NewNop(), metrics.NewNop())

	out, err := svc.CreateOrder(context.Background(), CreateOrderRequest{
		OrderID:     "id-1",
		OrderCode:   "SHO-1",
		AmountMinor: 1000,
		Lines: []models.OrderLine{
			{ColorID: "c1", ProductName: "Shirt", Color: "Navy", Price: decimal.NewFromInt(500), Qty: 2},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "SHO-1", out.GatewayOrderID)
	assert.NotEmpty(t, out.Token)

	require.Len(t, fs.requests, 1)
	req := fs.requests[0]
	assert.Equal(t, "SHO-1", req.TransactionDetails.OrderID)
	require.NotNil(t, req.Items, "items summing to the gross amount are sent")
	assert.Equal(t, "https://shop.example/orders", req.Callbacks.Finish)

	_, err = svc.CreateOrder(context.Background(), CreateOrderRequest{
		OrderCode:   "SHO-2",
		AmountMinor: 1010,
		Lines:       []models.OrderLine{{ColorID: "c1", Price: decimal.NewFromInt(500), Qty: 2}},
	})
	require.NoError(t, err)
	assert.Nil(t, fs.requests[1].Items, "items are dropped when they do not add up")
}

func TestMidtransVerifyCallback(t *testing.T) {
	newCallback := func(status, fraud string) *PaymentCallback {
		return &PaymentCallback{
			OrderID:           "SHO-1",
			GatewayOrderID:    "SHO-1",
			StatusCode:        "200",
			GrossAmount:       "1010.00",
			TransactionStatus: status,
			FraudStatus:       fraud,
			PaymentID:         "txn-1",
			Signature:         MidtransSignature("SHO-1", "200", "1010.00", testServerKey),
		}
	}

	t.Run("settlement", func(t *testing.T) {
		svc := NewMidtransService(&fakeSnap{}, nil, testServerKey, "", 0, zap.NewNop(), metrics.NewNop())
		verified, err := svc.VerifyCallback(context.Background(), newCallback("settlement", ""))
		require.NoError(t, err)
		assert.Equal(t, "SHO-1", verified.GatewayOrderID)
		assert.Equal(t, "txn-1", verified.PaymentID)
		assert.True(t, verified.HasAmount)
		assert.Equal(t, int64(1010), verified.AmountMinor)
	})

	t.Run("capture needs an accepted fraud status", func(t *testing.T) {
		svc := NewMidtransService(&fakeSnap{}, nil, testServerKey, "", 0, zap.NewNop(), metrics.NewNop())
		_, err := svc.VerifyCallback(context.Background(), newCallback("capture", "accept"))
		assert.NoError(t, err)
		_, err = svc.VerifyCallback(context.Background(), newCallback("capture", "challenge"))
		assert.ErrorIs(t, err, ErrPaymentNotCompleted)
	})

	t.Run("tampered signature", func(t *testing.T) {
		svc := NewMidtransService(&fakeSnap{}, nil, testServerKey, "", 0, zap.NewNop(), metrics.NewNop())
		cb := newCallback("settlement", "")
		cb.GrossAmount = "1.00"
		_, err := svc.VerifyCallback(context.Background(), cb)
		assert.ErrorIs(t, err, ErrPaymentVerification)
	})

	t.Run("status api overrides the notification", func(t *testing.T) {
		status := &fakeStatus{resp: &coreapi.TransactionStatusResponse{
			TransactionStatus: "expire",
			GrossAmount:       "1010.00",
		}}
		svc := NewMidtransService(&fakeSnap{}, status, testServerKey, "", 0, zap.NewNop(), metrics.NewNop())
		_, err := svc.VerifyCallback(context.Background(), newCallback("settlement", ""))
		assert.ErrorIs(t, err, ErrPaymentNotCompleted)
	})

	t.Run("status api unavailable", func(t *testing.T) {
		status := &fakeStatus{err: &midtrans.Error{Message: "timeout", StatusCode: 504}}
		svc := NewMidtransService(&fakeSnap{}, status, testServerKey, "", 0, zap.NewNop(), metrics.NewNop())
		_, err := svc.VerifyCallback(context.Background(), newCallback("settlement", ""))
		assert.ErrorIs(t, err, ErrGatewayUnavailable)
	})
}

func TestMidtransMinorUnitsOnlyRupiah(t *testing.T) {
	svc := NewMidtransService(&fakeSnap{}, nil, testServerKey, "", 0, zap.NewNop(), metrics.NewNop())

	minor, err := svc.MinorUnits(decimal.NewFromInt(1010), "idr")
	require.NoError(t, err)
	assert.Equal(t, int64(1010), minor)

	for _, currency := range []string{"INR", "USD", ""} {
		minor, err := svc.MinorUnits(decimal.NewFromInt(1010), currency)
		assert.ErrorIs(t, err, ErrUnsupportedCurrency, currency)
		assert.Zero(t, minor)
	}
}

func TestMidtransItemNamesKeepWholeRunes(t *testing.T) {
	fs := &fakeSnap{}
	svc := NewMidtransService(fs, nil, testServerKey, "", 0, zap.NewNop(), metrics.NewNop())

	_, err := svc.CreateOrder(context.Background(), CreateOrderRequest{
		OrderCode:   "SHO-3",
		AmountMinor: 500,
		Lines: []models.OrderLine{{
			ColorID:     "c1",
			ProductName: strings.Repeat("कुर्ता", 12),
			Color:       "नीला",
			Price:       decimal.NewFromInt(500),
			Qty:         1,
		}},
	})
	require.NoError(t, err)

	require.NotNil(t, fs.requests[0].Items)
	name := (*fs.requests[0].Items)[0].Name
	assert.True(t, utf8.ValidString(name))
	assert.Equal(t, 50, utf8.RuneCountInString(name))
}
