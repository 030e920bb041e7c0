package admin

import (
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/unrolled/render"
	"go.uber.org/zap"

	"github.com/Rakhulsr/sho-storefront/app/handlers"
	"github.com/Rakhulsr/sho-storefront/app/helpers"
	"github.com/Rakhulsr/sho-storefront/app/services"
)

const defaultPageSize = 20

type AdminHandler struct {
	catalog  *services.CatalogService
	orders   *services.OrderService
	render   *render.Render
	validate *validator.Validate
	log      *zap.Logger
}

func NewAdminHandler(catalog *services.CatalogService, orders *services.OrderService, rnd *render.Render, log *zap.Logger) *AdminHandler {
	return &AdminHandler{catalog: catalog, orders: orders, render: rnd, validate: validator.New(), log: log}
}

func (h *AdminHandler) fail(w http.ResponseWriter, r *http.Request, err error) {
	handlers.WriteServiceError(h.render, w, r, h.log, err)
}

// bind decodes and validates a JSON payload, writing the error response
// itself when either step fails.
func (h *AdminHandler) bind(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := handlers.BindJSON(r, dst); err != nil {
		h.fail(w, r, err)
		return false
	}
	if err := h.validate.Struct(dst); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok {
			err = services.NewValidationError(helpers.FormatValidationErrors(verrs))
		}
		h.fail(w, r, err)
		return false
	}
	return true
}

func pagination(r *http.Request) (limit, offset int) {
	limit, offset = defaultPageSize, 0
	if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && v > 0 && v <= 100 {
		limit = v
	}
	if v, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && v > 1 {
		offset = (v - 1) * limit
	}
	return limit, offset
}
