package middlewares

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/Rakhulsr/sho-storefront/app/helpers"
	"github.com/Rakhulsr/sho-storefront/app/repositories"
	"github.com/Rakhulsr/sho-storefront/app/utils/logger"
	"github.com/Rakhulsr/sho-storefront/app/utils/sessions"
)

// SessionScope resolves the caller and their cart from the session cookie
// and exposes both through helpers.RequestScope. A cart id is issued on the
// first request so anonymous visitors can shop. Carts left modified by the
// handler are persisted afterwards.
func SessionScope(store sessions.SessionStore, cartRepo repositories.CartRepository, userRepo repositories.UserRepositoryImpl, log *zap.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			reqLog := logger.FromContext(ctx, log)
			scope := &helpers.RequestScope{}

			if userID := store.GetUserID(r); userID != "" {
				user, err := userRepo.FindByID(ctx, userID)
				if err != nil {
					reqLog.Error("failed to load session user", zap.String("user_id", userID), zap.Error(err))
				} else if user == nil {
					_ = store.ClearUserID(w, r)
				} else {
					scope.User = user
				}
			}

			cartID := store.GetCartID(r)
			if cartID == "" {
				cartID = uuid.New().String()
				if err := store.SetCartID(w, r, cartID); err != nil {
					reqLog.Error("failed to store cart id in session", zap.Error(err))
				}
			}
			cart, err := cartRepo.Load(ctx, cartID)
			if err != nil {
				reqLog.Error("failed to load cart", zap.String("cart_id", cartID), zap.Error(err))
				cart = sessions.NewCart(cartID)
			}
			scope.CartID = cartID
			scope.Cart = cart

			next.ServeHTTP(w, r.WithContext(helpers.WithScope(ctx, scope)))

			if cart.Modified() {
				if err := cartRepo.Save(ctx, cart); err != nil {
					reqLog.Error("failed to save cart", zap.String("cart_id", cartID), zap.Error(err))
				}
			}
		})
	}
}
