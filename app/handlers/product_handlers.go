package handlers

import (
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/unrolled/render"
	"go.uber.org/zap"

	"github.com/Rakhulsr/sho-storefront/app/helpers"
	"github.com/Rakhulsr/sho-storefront/app/services"
)

type ProductHandler struct {
	catalog  *services.CatalogService
	carts    *services.CartService
	render   *render.Render
	validate *validator.Validate
	log      *zap.Logger
}

func NewProductHandler(catalog *services.CatalogService, carts *services.CartService, rnd *render.Render, log *zap.Logger) *ProductHandler {
	return &ProductHandler{catalog: catalog, carts: carts, render: rnd, validate: validator.New(), log: log}
}

type reviewRequest struct {
	Body  string `json:"body" validate:"required,max=256"`
	Image string `json:"image" validate:"omitempty,max=255"`
}

func (h *ProductHandler) Categories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.catalog.Categories(r.Context())
	if err != nil {
		WriteServiceError(h.render, w, r, h.log, err)
		return
	}
	_ = h.render.JSON(w, http.StatusOK, map[string]interface{}{"success": true, "categories": categories})
}

func (h *ProductHandler) CategoryProducts(w http.ResponseWriter, r *http.Request) {
	category, products, err := h.catalog.CategoryProducts(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		WriteServiceError(h.render, w, r, h.log, err)
		return
	}
	_ = h.render.JSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"category": category,
		"products": products,
	})
}

func (h *ProductHandler) ProductDetail(w http.ResponseWriter, r *http.Request) {
	product, err := h.catalog.Product(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		WriteServiceError(h.render, w, r, h.log, err)
		return
	}
	_ = h.render.JSON(w, http.StatusOK, map[string]interface{}{"success": true, "product": product})
}

func (h *ProductHandler) Stock(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	qty, err := h.carts.StockQuantity(r.Context(), vars["id"], vars["colorID"])
	if err != nil {
		WriteServiceError(h.render, w, r, h.log, err)
		return
	}
	_ = h.render.JSON(w, http.StatusOK, map[string]interface{}{"success": true, "stock_qty": qty})
}

func (h *ProductHandler) Reviews(w http.ResponseWriter, r *http.Request) {
	reviews, err := h.catalog.Reviews(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		WriteServiceError(h.render, w, r, h.log, err)
		return
	}
	_ = h.render.JSON(w, http.StatusOK, map[string]interface{}{"success": true, "reviews": reviews})
}

func (h *ProductHandler) AddReview(w http.ResponseWriter, r *http.Request) {
	var req reviewRequest
	if err := BindJSON(r, &req); err != nil {
		WriteServiceError(h.render, w, r, h.log, err)
		return
	}
	req.Body = strings.TrimSpace(req.Body)
	if err := h.validate.Struct(req); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok {
			WriteServiceError(h.render, w, r, h.log, services.NewValidationError(helpers.FormatValidationErrors(verrs)))
			return
		}
		WriteServiceError(h.render, w, r, h.log, err)
		return
	}

	userID := helpers.ScopeFromContext(r.Context()).UserID()
	review, err := h.catalog.AddReview(r.Context(), userID, mux.Vars(r)["id"], req.Body, req.Image)
	if err != nil {
		WriteServiceError(h.render, w, r, h.log, err)
		return
	}
	_ = h.render.JSON(w, http.StatusCreated, map[string]interface{}{"success": true, "review": review})
}
