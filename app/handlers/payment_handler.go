package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/unrolled/render"
	"go.uber.org/zap"

	"github.com/Rakhulsr/sho-storefront/app/helpers"
	"github.com/Rakhulsr/sho-storefront/app/services"
	"github.com/Rakhulsr/sho-storefront/app/utils/logger"
)

const maxWebhookBody = 64 << 10

type PaymentHandler struct {
	checkout *services.CheckoutService
	render   *render.Render
	log      *zap.Logger
}

func NewPaymentHandler(checkout *services.CheckoutService, rnd *render.Render, log *zap.Logger) *PaymentHandler {
	return &PaymentHandler{checkout: checkout, render: rnd, log: log}
}

type midtransNotification struct {
	OrderID           string `json:"order_id"`
	StatusCode        string `json:"status_code"`
	GrossAmount       string `json:"gross_amount"`
	SignatureKey      string `json:"signature_key"`
	TransactionStatus string `json:"transaction_status"`
	FraudStatus       string `json:"fraud_status"`
	TransactionID     string `json:"transaction_id"`
}

func (h *PaymentHandler) writeConfirmed(w http.ResponseWriter, result *services.ConfirmResult) {
	_ = h.render.JSON(w, http.StatusOK, map[string]interface{}{
		"success":           true,
		"order":             result.Order,
		"points_earned":     result.PointsEarned,
		"already_confirmed": result.AlreadyConfirmed,
	})
}

// Callback confirms a payment reported by the client after the gateway's
// checkout completes.
func (h *PaymentHandler) Callback(w http.ResponseWriter, r *http.Request) {
	var cb services.PaymentCallback
	if err := BindJSON(r, &cb); err != nil {
		WriteServiceError(h.render, w, r, h.log, err)
		return
	}
	result, err := h.checkout.Confirm(r.Context(), &cb)
	if err != nil {
		WriteServiceError(h.render, w, r, h.log, err)
		return
	}
	// the buyer's own cart is cleared on their session too
	if scope := helpers.ScopeFromContext(r.Context()); scope != nil && scope.CartID == result.Order.CartID {
		scope.Cart.Clear()
	}
	h.writeConfirmed(w, result)
}

// MidtransNotification handles the server-to-server HTTP notification.
// Unsettled transactions are acknowledged so Midtrans stops retrying.
func (h *PaymentHandler) MidtransNotification(w http.ResponseWriter, r *http.Request) {
	var n midtransNotification
	if err := BindJSONLenient(r, &n); err != nil {
		WriteServiceError(h.render, w, r, h.log, err)
		return
	}
	cb := &services.PaymentCallback{
		OrderID:           n.OrderID,
		GatewayOrderID:    n.OrderID,
		PaymentID:         n.TransactionID,
		Signature:         n.SignatureKey,
		StatusCode:        n.StatusCode,
		GrossAmount:       n.GrossAmount,
		TransactionStatus: n.TransactionStatus,
		FraudStatus:       n.FraudStatus,
	}
	h.confirmWebhook(w, r, cb)
}

func (h *PaymentHandler) StripeWebhook(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		WriteError(h.render, w, http.StatusServiceUnavailable, "failed to read body")
		return
	}
	cb := &services.PaymentCallback{
		Signature: r.Header.Get("Stripe-Signature"),
		Payload:   payload,
	}
	h.confirmWebhook(w, r, cb)
}

func (h *PaymentHandler) confirmWebhook(w http.ResponseWriter, r *http.Request, cb *services.PaymentCallback) {
	result, err := h.checkout.Confirm(r.Context(), cb)
	if errors.Is(err, services.ErrPaymentNotCompleted) {
		logger.FromContext(r.Context(), h.log).Info("payment notification ignored", zap.Error(err))
		_ = h.render.JSON(w, http.StatusOK, map[string]interface{}{"success": true, "status": "ignored"})
		return
	}
	if err != nil {
		WriteServiceError(h.render, w, r, h.log, err)
		return
	}
	h.writeConfirmed(w, result)
}
