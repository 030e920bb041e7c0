package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"github.com/unrolled/render"
	"go.uber.org/zap"

	"github.com/Rakhulsr/sho-storefront/app/helpers"
	"github.com/Rakhulsr/sho-storefront/app/repositories"
	"github.com/Rakhulsr/sho-storefront/app/services"
	"github.com/Rakhulsr/sho-storefront/app/utils/logger"
)

type CartHandler struct {
	carts    *services.CartService
	cartRepo repositories.CartRepository
	render   *render.Render
	log      *zap.Logger
}

func NewCartHandler(carts *services.CartService, cartRepo repositories.CartRepository, rnd *render.Render, log *zap.Logger) *CartHandler {
	return &CartHandler{carts: carts, cartRepo: cartRepo, render: rnd, log: log}
}

// persist writes the cart before the response goes out so the next request
// from the same browser sees the change.
func (h *CartHandler) persist(r *http.Request, scope *helpers.RequestScope) error {
	if err := h.cartRepo.Save(r.Context(), scope.Cart); err != nil {
		logger.FromContext(r.Context(), h.log).Error("failed to save cart", zap.String("cart_id", scope.CartID), zap.Error(err))
		return err
	}
	return nil
}

func (h *CartHandler) renderSummary(w http.ResponseWriter, r *http.Request, status int) {
	scope := helpers.ScopeFromContext(r.Context())
	summary, err := h.carts.Summary(r.Context(), scope.UserID(), scope.Cart)
	if err != nil {
		WriteServiceError(h.render, w, r, h.log, err)
		return
	}
	_ = h.render.JSON(w, status, map[string]interface{}{"success": true, "cart": summary})
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	h.renderSummary(w, r, http.StatusOK)
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	scope := helpers.ScopeFromContext(r.Context())
	values, err := RequestValues(r)
	if err != nil {
		WriteServiceError(h.render, w, r, h.log, err)
		return
	}

	qty := 1
	if raw := strings.TrimSpace(values.Get("qty")); raw != "" {
		qty, err = strconv.Atoi(raw)
		if err != nil {
			WriteServiceError(h.render, w, r, h.log, services.ErrInvalidQuantity)
			return
		}
	}
	colorID := values.Get("color_id")
	if colorID == "" {
		WriteServiceError(h.render, w, r, h.log, services.NewValidationError(map[string]string{"color_id": "Color is required."}))
		return
	}

	if err := h.carts.AddItem(r.Context(), scope.Cart, mux.Vars(r)["productID"], colorID, qty); err != nil {
		WriteServiceError(h.render, w, r, h.log, err)
		return
	}
	if err := h.persist(r, scope); err != nil {
		WriteServiceError(h.render, w, r, h.log, err)
		return
	}
	h.renderSummary(w, r, http.StatusOK)
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	scope := helpers.ScopeFromContext(r.Context())
	h.carts.RemoveItem(scope.Cart, mux.Vars(r)["key"])
	if err := h.persist(r, scope); err != nil {
		WriteServiceError(h.render, w, r, h.log, err)
		return
	}
	h.renderSummary(w, r, http.StatusOK)
}

// UpdateQuantity answers the quantity selector on the cart page.
func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	scope := helpers.ScopeFromContext(r.Context())
	values, err := RequestValues(r)
	if err != nil {
		WriteServiceError(h.render, w, r, h.log, err)
		return
	}
	qty, err := strconv.Atoi(strings.TrimSpace(values.Get("quantity")))
	if err != nil {
		WriteServiceError(h.render, w, r, h.log, services.ErrInvalidQuantity)
		return
	}

	update, err := h.carts.UpdateQuantity(r.Context(), scope.UserID(), scope.Cart, values.Get("key"), qty)
	if err != nil {
		WriteServiceError(h.render, w, r, h.log, err)
		return
	}
	if err := h.persist(r, scope); err != nil {
		WriteServiceError(h.render, w, r, h.log, err)
		return
	}
	_ = h.render.JSON(w, http.StatusOK, map[string]interface{}{
		"success":       true,
		"key":           update.Key,
		"quantity":      update.Quantity,
		"total_price":   update.LineTotal,
		"ajax_discount": update.Discount,
		"total_sum":     update.CartTotal,
		"available":     update.Available,
		"was_clamped":   update.WasClamped,
	})
}
