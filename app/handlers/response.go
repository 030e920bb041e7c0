package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/unrolled/render"
	"go.uber.org/zap"

	"github.com/Rakhulsr/sho-storefront/app/services"
	"github.com/Rakhulsr/sho-storefront/app/utils/logger"
)

type errorBody struct {
	Success bool              `json:"success"`
	Error   string            `json:"error"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// WriteServiceError maps service errors onto HTTP statuses. Anything it
// does not recognise is logged and reported as a bare 500.
func WriteServiceError(rnd *render.Render, w http.ResponseWriter, r *http.Request, log *zap.Logger, err error) {
	var verr *services.ValidationError
	status := http.StatusInternalServerError

	switch {
	case errors.As(err, &verr):
		_ = rnd.JSON(w, http.StatusUnprocessableEntity, errorBody{Error: "validation failed", Fields: verr.Fields})
		return
	case errors.Is(err, services.ErrValidation):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, services.ErrInvalidQuantity),
		errors.Is(err, services.ErrInvalidPincode),
		errors.Is(err, services.ErrEmptyCart),
		errors.Is(err, services.ErrCartItemNotFound),
		errors.Is(err, services.ErrInvalidStatus),
		errors.Is(err, services.ErrPaymentVerification),
		errors.Is(err, services.ErrPaymentNotCompleted):
		status = http.StatusBadRequest
	case errors.Is(err, services.ErrProductNotFound),
		errors.Is(err, services.ErrColorNotFound),
		errors.Is(err, services.ErrCategoryNotFound),
		errors.Is(err, services.ErrOrderNotFound):
		status = http.StatusNotFound
	case errors.Is(err, services.ErrInsufficientStock),
		errors.Is(err, services.ErrInsufficientPoints),
		errors.Is(err, services.ErrEmailTaken):
		status = http.StatusConflict
	case errors.Is(err, services.ErrInvalidCredentials):
		status = http.StatusUnauthorized
	case errors.Is(err, services.ErrGatewayUnavailable):
		status = http.StatusBadGateway
	}

	reqLog := logger.FromContext(r.Context(), log)
	if status >= http.StatusInternalServerError {
		reqLog.Error("request failed", zap.String("path", r.URL.Path), zap.Error(err))
	}

	message := err.Error()
	switch status {
	case http.StatusInternalServerError:
		message = "internal server error"
	case http.StatusBadGateway:
		message = "payment gateway unavailable, please retry"
	}
	_ = rnd.JSON(w, status, errorBody{Error: message})
}

func WriteError(rnd *render.Render, w http.ResponseWriter, status int, message string) {
	_ = rnd.JSON(w, status, errorBody{Error: message})
}

// BindJSON decodes a JSON body into dst, rejecting unknown fields.
func BindJSON(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: malformed request body: %v", services.ErrValidation, err)
	}
	return nil
}

// BindJSONLenient is BindJSON for third-party payloads that carry more
// fields than we read.
func BindJSONLenient(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("%w: malformed request body: %v", services.ErrValidation, err)
	}
	return nil
}

// RequestValues reads flat key/value input from either a JSON object or a
// form body, so the ajax endpoints accept both.
func RequestValues(r *http.Request) (url.Values, error) {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		raw := map[string]interface{}{}
		dec := json.NewDecoder(r.Body)
		dec.UseNumber()
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("%w: malformed request body: %v", services.ErrValidation, err)
		}
		values := url.Values{}
		for k, v := range raw {
			if v == nil {
				continue
			}
			values.Set(k, fmt.Sprint(v))
		}
		return values, nil
	}
	if err := r.ParseForm(); err != nil {
		return nil, fmt.Errorf("%w: malformed form: %v", services.ErrValidation, err)
	}
	return r.Form, nil
}
