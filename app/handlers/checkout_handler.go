package handlers

import (
	"net/http"

	"github.com/unrolled/render"
	"go.uber.org/zap"

	"github.com/Rakhulsr/sho-storefront/app/helpers"
	"github.com/Rakhulsr/sho-storefront/app/services"
)

type CheckoutHandler struct {
	checkout *services.CheckoutService
	render   *render.Render
	log      *zap.Logger
}

func NewCheckoutHandler(checkout *services.CheckoutService, rnd *render.Render, log *zap.Logger) *CheckoutHandler {
	return &CheckoutHandler{checkout: checkout, render: rnd, log: log}
}

// Initiate creates the Pending order and the gateway order the client
// completes payment against.
func (h *CheckoutHandler) Initiate(w http.ResponseWriter, r *http.Request) {
	var req services.CheckoutRequest
	if err := BindJSON(r, &req); err != nil {
		WriteServiceError(h.render, w, r, h.log, err)
		return
	}

	scope := helpers.ScopeFromContext(r.Context())
	result, err := h.checkout.Initiate(r.Context(), scope.User, scope.Cart, req)
	if err != nil {
		WriteServiceError(h.render, w, r, h.log, err)
		return
	}
	_ = h.render.JSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"order":   result.Order,
		"quote":   result.Quote,
		"gateway": result.Gateway,
		"payment": result.Payment,
	})
}
