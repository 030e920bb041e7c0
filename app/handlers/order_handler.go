package handlers

import (
	"net/http"

	"github.com/unrolled/render"
	"go.uber.org/zap"

	"github.com/Rakhulsr/sho-storefront/app/helpers"
	"github.com/Rakhulsr/sho-storefront/app/services"
)

type OrderHandler struct {
	orders *services.OrderService
	render *render.Render
	log    *zap.Logger
}

func NewOrderHandler(orders *services.OrderService, rnd *render.Render, log *zap.Logger) *OrderHandler {
	return &OrderHandler{orders: orders, render: rnd, log: log}
}

func (h *OrderHandler) MyOrders(w http.ResponseWriter, r *http.Request) {
	userID := helpers.ScopeFromContext(r.Context()).UserID()
	orders, err := h.orders.MyOrders(r.Context(), userID)
	if err != nil {
		WriteServiceError(h.render, w, r, h.log, err)
		return
	}
	_ = h.render.JSON(w, http.StatusOK, map[string]interface{}{"success": true, "orders": orders})
}
