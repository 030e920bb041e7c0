package handlers

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/unrolled/render"
	"go.uber.org/zap"

	"github.com/Rakhulsr/sho-storefront/app/helpers"
	"github.com/Rakhulsr/sho-storefront/app/models"
	"github.com/Rakhulsr/sho-storefront/app/services"
	"github.com/Rakhulsr/sho-storefront/app/utils/logger"
	"github.com/Rakhulsr/sho-storefront/app/utils/sessions"
)

type AuthHandler struct {
	auth     *services.AuthService
	store    sessions.SessionStore
	render   *render.Render
	validate *validator.Validate
	log      *zap.Logger
}

func NewAuthHandler(auth *services.AuthService, store sessions.SessionStore, rnd *render.Render, log *zap.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, store: store, render: rnd, validate: validator.New(), log: log}
}

type registerRequest struct {
	Name     string `json:"name" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email,max=100"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (h *AuthHandler) validationFailed(w http.ResponseWriter, r *http.Request, err error) bool {
	if err == nil {
		return false
	}
	if verrs, ok := err.(validator.ValidationErrors); ok {
		err = services.NewValidationError(helpers.FormatValidationErrors(verrs))
	}
	WriteServiceError(h.render, w, r, h.log, err)
	return true
}

func (h *AuthHandler) startSession(w http.ResponseWriter, r *http.Request, user *models.User, status int) {
	if err := h.store.SetUserID(w, r, user.ID); err != nil {
		WriteServiceError(h.render, w, r, h.log, err)
		return
	}
	_ = h.render.JSON(w, status, map[string]interface{}{"success": true, "user": user})
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := BindJSON(r, &req); err != nil {
		WriteServiceError(h.render, w, r, h.log, err)
		return
	}
	if h.validationFailed(w, r, h.validate.Struct(req)) {
		return
	}

	user, err := h.auth.Register(r.Context(), req.Name, req.Email, req.Password, models.RoleCustomer)
	if err != nil {
		WriteServiceError(h.render, w, r, h.log, err)
		return
	}
	logger.FromContext(r.Context(), h.log).Info("user registered", zap.String("user_id", user.ID))
	h.startSession(w, r, user, http.StatusCreated)
}

// Login keeps the anonymous cart: the cart id lives in the same session.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := BindJSON(r, &req); err != nil {
		WriteServiceError(h.render, w, r, h.log, err)
		return
	}
	if h.validationFailed(w, r, h.validate.Struct(req)) {
		return
	}

	user, err := h.auth.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		WriteServiceError(h.render, w, r, h.log, err)
		return
	}
	h.startSession(w, r, user, http.StatusOK)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.store.ClearSession(w, r); err != nil {
		WriteServiceError(h.render, w, r, h.log, err)
		return
	}
	_ = h.render.JSON(w, http.StatusOK, map[string]interface{}{"success": true})
}
