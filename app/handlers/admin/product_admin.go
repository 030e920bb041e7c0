package admin

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"github.com/Rakhulsr/sho-storefront/app/services"
)

type pricingRequest struct {
	ListPrice decimal.Decimal `json:"list_price"`
	Discount  int             `json:"discount" validate:"gte=0,lte=100"`
}

type colorRequest struct {
	Color string `json:"color" validate:"required,max=50"`
	Qty   int    `json:"qty" validate:"gte=0"`
}

type stockRequest struct {
	Qty int `json:"qty" validate:"gte=0"`
}

type imageRequest struct {
	Path     string `json:"path" validate:"required,max=255"`
	Position int    `json:"position" validate:"gte=0"`
}

func (h *AdminHandler) GetProducts(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r)
	products, total, err := h.catalog.ListProducts(r.Context(), limit, offset)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	_ = h.render.JSON(w, http.StatusOK, map[string]interface{}{"success": true, "products": products, "total": total})
}

// CreateProduct takes the list price; the stored price has the discount
// already applied.
func (h *AdminHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req services.ProductInput
	if !h.bind(w, r, &req) {
		return
	}
	product, err := h.catalog.CreateProduct(r.Context(), req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	_ = h.render.JSON(w, http.StatusCreated, map[string]interface{}{"success": true, "product": product})
}

func (h *AdminHandler) UpdatePricing(w http.ResponseWriter, r *http.Request) {
	var req pricingRequest
	if !h.bind(w, r, &req) {
		return
	}
	product, err := h.catalog.Reprice(r.Context(), mux.Vars(r)["id"], req.ListPrice, req.Discount)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	_ = h.render.JSON(w, http.StatusOK, map[string]interface{}{"success": true, "product": product})
}

func (h *AdminHandler) AddColor(w http.ResponseWriter, r *http.Request) {
	var req colorRequest
	if !h.bind(w, r, &req) {
		return
	}
	color, err := h.catalog.AddColor(r.Context(), mux.Vars(r)["id"], req.Color, req.Qty)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	_ = h.render.JSON(w, http.StatusCreated, map[string]interface{}{"success": true, "color": color})
}

func (h *AdminHandler) SetStock(w http.ResponseWriter, r *http.Request) {
	var req stockRequest
	if !h.bind(w, r, &req) {
		return
	}
	colorID := mux.Vars(r)["colorID"]
	if err := h.catalog.SetStock(r.Context(), colorID, req.Qty); err != nil {
		h.fail(w, r, err)
		return
	}
	_ = h.render.JSON(w, http.StatusOK, map[string]interface{}{"success": true, "color_id": colorID, "stock_qty": req.Qty})
}

func (h *AdminHandler) AddImage(w http.ResponseWriter, r *http.Request) {
	var req imageRequest
	if !h.bind(w, r, &req) {
		return
	}
	image, err := h.catalog.AddImage(r.Context(), mux.Vars(r)["colorID"], req.Path, req.Position)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	_ = h.render.JSON(w, http.StatusCreated, map[string]interface{}{"success": true, "image": image})
}
