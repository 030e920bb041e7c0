package middlewares

import (
	"net/http"

	"github.com/unrolled/render"
	"go.uber.org/zap"

	"github.com/Rakhulsr/sho-storefront/app/helpers"
	"github.com/Rakhulsr/sho-storefront/app/utils/logger"
)

func RequireAuth(rnd *render.Render) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if helpers.ScopeFromContext(r.Context()).UserID() == "" {
				_ = rnd.JSON(w, http.StatusUnauthorized, map[string]interface{}{
					"success": false,
					"error":   "login required",
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func RequireAdmin(rnd *render.Render, log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			scope := helpers.ScopeFromContext(r.Context())
			if scope.UserID() == "" {
				_ = rnd.JSON(w, http.StatusUnauthorized, map[string]interface{}{
					"success": false,
					"error":   "login required",
				})
				return
			}
			if !scope.User.IsAdmin() {
				logger.FromContext(r.Context(), log).Warn("non-admin user attempted admin access",
					zap.String("user_id", scope.User.ID), zap.String("path", r.URL.Path))
				_ = rnd.JSON(w, http.StatusForbidden, map[string]interface{}{
					"success": false,
					"error":   "admin access required",
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
