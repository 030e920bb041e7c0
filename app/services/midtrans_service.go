package services

import (
	"context"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/coreapi"
	"github.com/midtrans/midtrans-go/snap"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/Rakhulsr/sho-storefront/app/utils/calc"
	"github.com/Rakhulsr/sho-storefront/app/utils/metrics"
)

type midtransSnapAPI interface {
	CreateTransaction(req *snap.Request) (*snap.Response, *midtrans.Error)
}

type midtransStatusAPI interface {
	CheckTransaction(param string) (*coreapi.TransactionStatusResponse, *midtrans.Error)
}

type MidtransService struct {
	snap      midtransSnapAPI
	core      midtransStatusAPI
	serverKey string
	finishURL string
	timeout   time.Duration
	log       *zap.Logger
	metrics   *metrics.Metrics
}

// NewMidtransService wires the Snap client for new transactions. core may be
// nil, in which case notifications are trusted once their signature matches.
func NewMidtransService(snapClient midtransSnapAPI, core midtransStatusAPI, serverKey, appURL string, timeout time.Duration, log *zap.Logger, m *metrics.Metrics) *MidtransService {
	return &MidtransService{
		snap:      snapClient,
		core:      core,
		serverKey: serverKey,
		finishURL: strings.TrimRight(appURL, "/") + "/orders",
		timeout:   timeout,
		log:       log,
		metrics:   m,
	}
}

func (s *MidtransService) Name() string { return "midtrans" }

// MidtransCurrency is the only currency Midtrans settles in.
const MidtransCurrency = "IDR"

// MinorUnits is the whole rupiah amount: Midtrans takes gross_amount in IDR
// without fractional digits. Any other currency is refused rather than
// charged as if it were rupiah.
func (s *MidtransService) MinorUnits(amount decimal.Decimal, currency string) (int64, error) {
	if !strings.EqualFold(strings.TrimSpace(currency), MidtransCurrency) {
		return 0, fmt.Errorf("%w: midtrans charges %s, got %q", ErrUnsupportedCurrency, MidtransCurrency, currency)
	}
	return calc.ToMinorUnits(amount, 0), nil
}

func (s *MidtransService) CreateOrder(ctx context.Context, req CreateOrderRequest) (*GatewayOrder, error) {
	defer s.metrics.TrackGatewayCall(s.Name(), "create_order")()

	items := make([]midtrans.ItemDetails, 0, len(req.Lines))
	for _, line := range req.Lines {
		name := truncateRunes(fmt.Sprintf("%s (%s)", line.ProductName, line.Color), midtransItemNameMax)
		items = append(items, midtrans.ItemDetails{
			ID:    line.ColorID,
			Name:  name,
			Price: line.Price.Round(0).IntPart(),
			Qty:   int32(line.Qty),
		})
	}

	snapReq := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  req.OrderCode,
			GrossAmt: req.AmountMinor,
		},
		CustomerDetail: &midtrans.CustomerDetails{
			FName: req.Customer.Name,
			Email: req.Customer.Email,
			Phone: req.Customer.Phone,
			ShipAddr: &midtrans.CustomerAddress{
				FName:    req.Customer.Name,
				Address:  req.Address,
				Postcode: req.Pincode,
				Phone:    req.Customer.Phone,
			},
		},
		EnabledPayments: snap.AllSnapPaymentType,
		Callbacks: &snap.Callbacks{
			Finish: s.finishURL,
		},
	}
	// Item prices are whole units while the gross amount carries discount,
	// points and delivery, so items are only sent when they add up.
	if sumItems(items) == req.AmountMinor {
		snapReq.Items = &items
	}

	resp, err := callWithTimeout(ctx, s.timeout, func() (*snap.Response, error) {
		resp, mErr := s.snap.CreateTransaction(snapReq)
		if mErr != nil {
			return nil, fmt.Errorf("%w: midtrans create transaction: %s", ErrGatewayUnavailable, mErr.Error())
		}
		return resp, nil
	})
	if err != nil {
		return nil, err
	}
	if resp == nil || resp.Token == "" {
		return nil, fmt.Errorf("%w: midtrans returned no snap token for %s", ErrGatewayUnavailable, req.OrderCode)
	}

	return &GatewayOrder{
		GatewayOrderID: req.OrderCode,
		Token:          resp.Token,
		RedirectURL:    resp.RedirectURL,
	}, nil
}

const midtransItemNameMax = 50

func truncateRunes(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}

func sumItems(items []midtrans.ItemDetails) int64 {
	var total int64
	for _, item := range items {
		total += item.Price * int64(item.Qty)
	}
	return total
}

// MidtransSignature is hex(SHA512(order_id + status_code + gross_amount + server_key)).
func MidtransSignature(orderID, statusCode, grossAmount, serverKey string) string {
	sum := sha512.Sum512([]byte(orderID + statusCode + grossAmount + serverKey))
	return hex.EncodeToString(sum[:])
}

func (s *MidtransService) VerifyCallback(ctx context.Context, cb *PaymentCallback) (*VerifiedPayment, error) {
	defer s.metrics.TrackGatewayCall(s.Name(), "verify_callback")()

	if cb.GatewayOrderID == "" || cb.Signature == "" {
		return nil, fmt.Errorf("%w: missing order id or signature", ErrPaymentVerification)
	}
	expected := MidtransSignature(cb.GatewayOrderID, cb.StatusCode, cb.GrossAmount, s.serverKey)
	if subtle.ConstantTimeCompare([]byte(expected), []byte(strings.ToLower(cb.Signature))) != 1 {
		return nil, fmt.Errorf("%w: signature mismatch for %s", ErrPaymentVerification, cb.GatewayOrderID)
	}

	status, fraud, gross, paymentID := cb.TransactionStatus, cb.FraudStatus, cb.GrossAmount, cb.PaymentID
	if s.core != nil {
		resp, err := callWithTimeout(ctx, s.timeout, func() (*coreapi.TransactionStatusResponse, error) {
			resp, mErr := s.core.CheckTransaction(cb.GatewayOrderID)
			if mErr != nil {
				return nil, fmt.Errorf("%w: midtrans status check: %s", ErrGatewayUnavailable, mErr.Error())
			}
			return resp, nil
		})
		if err != nil {
			return nil, err
		}
		if resp == nil {
			return nil, fmt.Errorf("%w: empty status for %s", ErrGatewayUnavailable, cb.GatewayOrderID)
		}
		if resp.TransactionStatus != status || resp.FraudStatus != fraud {
			s.log.Warn("midtrans notification differs from status API, using API values",
				zap.String("gateway_order_id", cb.GatewayOrderID),
				zap.String("notified_status", status),
				zap.String("api_status", resp.TransactionStatus),
			)
		}
		status, fraud, gross = resp.TransactionStatus, resp.FraudStatus, resp.GrossAmount
		if resp.TransactionID != "" {
			paymentID = resp.TransactionID
		}
	}

	if !midtransSettled(status, fraud) {
		return nil, fmt.Errorf("%w: transaction %s is %q", ErrPaymentNotCompleted, cb.GatewayOrderID, status)
	}

	verified := &VerifiedPayment{
		GatewayOrderID: cb.GatewayOrderID,
		PaymentID:      paymentID,
		OrderID:        cb.OrderID,
	}
	if amount, err := decimal.NewFromString(gross); err == nil {
		verified.AmountMinor = calc.ToMinorUnits(amount, 0)
		verified.HasAmount = true
	}
	return verified, nil
}

func midtransSettled(status, fraud string) bool {
	switch status {
	case "settlement":
		return true
	case "capture":
		return fraud == "" || fraud == "accept"
	default:
		return false
	}
}
