package admin

import (
	"net/http"
	"strings"
)

type categoryRequest struct {
	Name  string `json:"name" validate:"required,max=100"`
	Image string `json:"image" validate:"omitempty,max=255"`
}

func (h *AdminHandler) GetCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.catalog.Categories(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	_ = h.render.JSON(w, http.StatusOK, map[string]interface{}{"success": true, "categories": categories})
}

func (h *AdminHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if !h.bind(w, r, &req) {
		return
	}
	category, err := h.catalog.CreateCategory(r.Context(), strings.TrimSpace(req.Name), req.Image)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	_ = h.render.JSON(w, http.StatusCreated, map[string]interface{}{"success": true, "category": category})
}
