package services

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/Rakhulsr/sho-storefront/app/utils/sessions"
)

var (
	ErrValidation       = errors.New("validation failed")
	ErrInvalidQuantity  = sessions.ErrInvalidQuantity
	ErrInvalidPincode   = errors.New("pincode must be a number")
	ErrEmptyCart        = errors.New("cart is empty")
	ErrProductNotFound  = errors.New("product not found")
	ErrColorNotFound    = errors.New("color not found for product")
	ErrCartItemNotFound = errors.New("invalid cart item")
	ErrCategoryNotFound = errors.New("category not found")
	ErrOrderNotFound    = errors.New("order not found")
	ErrInvalidStatus    = errors.New("invalid order status")

	ErrInsufficientStock  = errors.New("insufficient product stock")
	ErrInsufficientPoints = errors.New("insufficient loyalty points")

	ErrPaymentVerification = errors.New("payment verification failed")
	ErrGatewayUnavailable  = errors.New("payment gateway unavailable")

	ErrEmailTaken         = errors.New("email is already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// ValidationError carries per-field messages and matches ErrValidation.
type ValidationError struct {
	Fields map[string]string
}

func NewValidationError(fields map[string]string) *ValidationError {
	return &ValidationError{Fields: fields}
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return fmt.Sprintf("%s: %s", ErrValidation, strings.Join(parts, "; "))
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}
