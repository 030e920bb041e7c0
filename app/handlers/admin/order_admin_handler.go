package admin

import (
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/Rakhulsr/sho-storefront/app/utils/logger"
)

type statusRequest struct {
	Status string `json:"status" validate:"required"`
}

func (h *AdminHandler) GetOrders(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r)
	orders, total, err := h.orders.AllOrders(r.Context(), r.URL.Query().Get("status"), limit, offset)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	_ = h.render.JSON(w, http.StatusOK, map[string]interface{}{"success": true, "orders": orders, "total": total})
}

func (h *AdminHandler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	var req statusRequest
	if !h.bind(w, r, &req) {
		return
	}
	orderID := mux.Vars(r)["id"]
	order, err := h.orders.UpdateStatus(r.Context(), orderID, req.Status)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	logger.FromContext(r.Context(), h.log).Info("order status updated",
		zap.String("order_id", orderID), zap.String("status", req.Status))
	_ = h.render.JSON(w, http.StatusOK, map[string]interface{}{"success": true, "order": order})
}
