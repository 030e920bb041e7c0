package helpers

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gosimple/slug"
	"golang.org/x/crypto/bcrypt"

	"github.com/Rakhulsr/sho-storefront/app/models"
	"github.com/Rakhulsr/sho-storefront/app/utils/sessions"
)

type contextKey string

const (
	ContextKeyScope     contextKey = "requestScope"
	ContextKeyRequestID contextKey = "requestID"
)

// RequestScope is the per-request state handlers and services work with:
// who is calling and which cart the session points at.
type RequestScope struct {
	User   *models.User
	CartID string
	Cart   *sessions.Cart
}

func (s *RequestScope) UserID() string {
	if s == nil || s.User == nil {
		return ""
	}
	return s.User.ID
}

func WithScope(ctx context.Context, scope *RequestScope) context.Context {
	return context.WithValue(ctx, ContextKeyScope, scope)
}

func ScopeFromContext(ctx context.Context) *RequestScope {
	scope, _ := ctx.Value(ContextKeyScope).(*RequestScope)
	return scope
}

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ContextKeyRequestID, requestID)
}

func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(ContextKeyRequestID).(string)
	return id
}

func FormatValidationErrors(errs validator.ValidationErrors) map[string]string {
	errorMessages := make(map[string]string)
	for _, err := range errs {
		field := toSnake(err.Field())
		switch err.Tag() {
		case "required":
			errorMessages[field] = fmt.Sprintf("%s is required.", err.Field())
		case "email":
			errorMessages[field] = fmt.Sprintf("%s must be a valid email address.", err.Field())
		case "numeric":
			errorMessages[field] = fmt.Sprintf("%s must be numeric.", err.Field())
		case "min", "gte":
			errorMessages[field] = fmt.Sprintf("%s must be at least %s.", err.Field(), err.Param())
		case "max", "lte":
			errorMessages[field] = fmt.Sprintf("%s must be at most %s.", err.Field(), err.Param())
		case "len":
			errorMessages[field] = fmt.Sprintf("%s must be exactly %s characters.", err.Field(), err.Param())
		case "oneof":
			errorMessages[field] = fmt.Sprintf("%s must be one of: %s.", err.Field(), err.Param())
		default:
			errorMessages[field] = fmt.Sprintf("%s failed %s validation.", err.Field(), err.Tag())
		}
	}
	return errorMessages
}

func toSnake(s string) string {
	var b strings.Builder
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}

func PasswordCompare(hashPass string, password []byte) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashPass), password) == nil
}

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(bytes), nil
}

func GenerateSlug(s string) string {
	return slug.Make(s)
}
