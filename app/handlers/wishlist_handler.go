package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/unrolled/render"
	"go.uber.org/zap"

	"github.com/Rakhulsr/sho-storefront/app/helpers"
	"github.com/Rakhulsr/sho-storefront/app/services"
)

type WishlistHandler struct {
	wishlist *services.WishlistService
	render   *render.Render
	log      *zap.Logger
}

func NewWishlistHandler(wishlist *services.WishlistService, rnd *render.Render, log *zap.Logger) *WishlistHandler {
	return &WishlistHandler{wishlist: wishlist, render: rnd, log: log}
}

func (h *WishlistHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.wishlist.List(r.Context(), helpers.ScopeFromContext(r.Context()).UserID())
	if err != nil {
		WriteServiceError(h.render, w, r, h.log, err)
		return
	}
	_ = h.render.JSON(w, http.StatusOK, map[string]interface{}{"success": true, "items": items})
}

func (h *WishlistHandler) Add(w http.ResponseWriter, r *http.Request) {
	userID := helpers.ScopeFromContext(r.Context()).UserID()
	if err := h.wishlist.Add(r.Context(), userID, mux.Vars(r)["productID"]); err != nil {
		WriteServiceError(h.render, w, r, h.log, err)
		return
	}
	h.List(w, r)
}

func (h *WishlistHandler) Remove(w http.ResponseWriter, r *http.Request) {
	userID := helpers.ScopeFromContext(r.Context()).UserID()
	if err := h.wishlist.Remove(r.Context(), userID, mux.Vars(r)["productID"]); err != nil {
		WriteServiceError(h.render, w, r, h.log, err)
		return
	}
	h.List(w, r)
}
