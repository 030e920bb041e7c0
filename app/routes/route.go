package routes

import (
	"net/http"

	"github.com/gorilla/csrf"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/unrolled/render"
	"go.uber.org/zap"

	"github.com/Rakhulsr/sho-storefront/app/handlers"
	"github.com/Rakhulsr/sho-storefront/app/handlers/admin"
	"github.com/Rakhulsr/sho-storefront/app/middlewares"
	"github.com/Rakhulsr/sho-storefront/app/repositories"
	"github.com/Rakhulsr/sho-storefront/app/services"
	"github.com/Rakhulsr/sho-storefront/app/utils/metrics"
	"github.com/Rakhulsr/sho-storefront/app/utils/sessions"
)

type Services struct {
	Auth     *services.AuthService
	Catalog  *services.CatalogService
	Cart     *services.CartService
	Checkout *services.CheckoutService
	Orders   *services.OrderService
	Wishlist *services.WishlistService
}

type Options struct {
	Services     Services
	CartRepo     repositories.CartRepository
	UserRepo     repositories.UserRepositoryImpl
	SessionStore sessions.SessionStore
	Render       *render.Render
	Logger       *zap.Logger
	Metrics      *metrics.Metrics
	Gatherer     prometheus.Gatherer
	CSRFKey      []byte
	Secure       bool
	// HealthCheck reports whether the store behind the app is reachable.
	HealthCheck func(r *http.Request) error
}

func NewRouter(opts Options) *mux.Router {
	rnd, log, svc := opts.Render, opts.Logger, opts.Services

	productHandler := handlers.NewProductHandler(svc.Catalog, svc.Cart, rnd, log)
	cartHandler := handlers.NewCartHandler(svc.Cart, opts.CartRepo, rnd, log)
	checkoutHandler := handlers.NewCheckoutHandler(svc.Checkout, rnd, log)
	paymentHandler := handlers.NewPaymentHandler(svc.Checkout, rnd, log)
	orderHandler := handlers.NewOrderHandler(svc.Orders, rnd, log)
	wishlistHandler := handlers.NewWishlistHandler(svc.Wishlist, rnd, log)
	authHandler := handlers.NewAuthHandler(svc.Auth, opts.SessionStore, rnd, log)
	adminHandler := admin.NewAdminHandler(svc.Catalog, svc.Orders, rnd, log)

	router := mux.NewRouter()
	router.Use(middlewares.RequestLogger(log), middlewares.Metrics(opts.Metrics))

	router.Handle("/metrics", promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	router.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if opts.HealthCheck != nil {
			if err := opts.HealthCheck(r); err != nil {
				handlers.WriteError(rnd, w, http.StatusServiceUnavailable, "unhealthy")
				return
			}
		}
		_ = rnd.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	// server-to-server notifications carry their own signatures
	router.HandleFunc("/payments/midtrans/notification", paymentHandler.MidtransNotification).Methods(http.MethodPost)
	router.HandleFunc("/payments/stripe/webhook", paymentHandler.StripeWebhook).Methods(http.MethodPost)

	web := router.PathPrefix("/").Subrouter()
	web.Use(
		csrf.Protect(opts.CSRFKey,
			csrf.Secure(opts.Secure),
			csrf.Path("/"),
			csrf.ErrorHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				handlers.WriteError(rnd, w, http.StatusForbidden, "invalid csrf token")
			})),
		),
		middlewares.SessionScope(opts.SessionStore, opts.CartRepo, opts.UserRepo, log),
	)

	web.HandleFunc("/csrf-token", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-CSRF-Token", csrf.Token(r))
		_ = rnd.JSON(w, http.StatusOK, map[string]string{"csrf_token": csrf.Token(r)})
	}).Methods(http.MethodGet)

	web.HandleFunc("/categories", productHandler.Categories).Methods(http.MethodGet)
	web.HandleFunc("/categories/{id}/products", productHandler.CategoryProducts).Methods(http.MethodGet)
	web.HandleFunc("/products/{id}", productHandler.ProductDetail).Methods(http.MethodGet)
	web.HandleFunc("/products/{id}/colors/{colorID}/stock", productHandler.Stock).Methods(http.MethodGet)
	web.HandleFunc("/products/{id}/reviews", productHandler.Reviews).Methods(http.MethodGet)

	web.HandleFunc("/cart", cartHandler.GetCart).Methods(http.MethodGet)
	web.HandleFunc("/cart/add/{productID}", cartHandler.AddItem).Methods(http.MethodPost)
	web.HandleFunc("/cart/remove/{key}", cartHandler.RemoveItem).Methods(http.MethodPost)
	web.HandleFunc("/cart/update-quantity", cartHandler.UpdateQuantity).Methods(http.MethodPost)

	web.HandleFunc("/register", authHandler.Register).Methods(http.MethodPost)
	web.HandleFunc("/login", authHandler.Login).Methods(http.MethodPost)
	web.HandleFunc("/logout", authHandler.Logout).Methods(http.MethodPost)

	requireAuth := middlewares.RequireAuth(rnd)
	web.Handle("/products/{id}/reviews", requireAuth(http.HandlerFunc(productHandler.AddReview))).Methods(http.MethodPost)
	web.Handle("/checkout", requireAuth(http.HandlerFunc(checkoutHandler.Initiate))).Methods(http.MethodPost)
	web.Handle("/payments/callback", requireAuth(http.HandlerFunc(paymentHandler.Callback))).Methods(http.MethodPost)
	web.Handle("/orders", requireAuth(http.HandlerFunc(orderHandler.MyOrders))).Methods(http.MethodGet)
	web.Handle("/wishlist", requireAuth(http.HandlerFunc(wishlistHandler.List))).Methods(http.MethodGet)
	web.Handle("/wishlist/add/{productID}", requireAuth(http.HandlerFunc(wishlistHandler.Add))).Methods(http.MethodPost)
	web.Handle("/wishlist/remove/{productID}", requireAuth(http.HandlerFunc(wishlistHandler.Remove))).Methods(http.MethodPost)

	adminRouter := web.PathPrefix("/admin").Subrouter()
	adminRouter.Use(middlewares.RequireAdmin(rnd, log))
	adminRouter.HandleFunc("/categories", adminHandler.GetCategories).Methods(http.MethodGet)
	adminRouter.HandleFunc("/categories", adminHandler.CreateCategory).Methods(http.MethodPost)
	adminRouter.HandleFunc("/products", adminHandler.GetProducts).Methods(http.MethodGet)
	adminRouter.HandleFunc("/products", adminHandler.CreateProduct).Methods(http.MethodPost)
	adminRouter.HandleFunc("/products/{id}/pricing", adminHandler.UpdatePricing).Methods(http.MethodPut)
	adminRouter.HandleFunc("/products/{id}/colors", adminHandler.AddColor).Methods(http.MethodPost)
	adminRouter.HandleFunc("/colors/{colorID}/stock", adminHandler.SetStock).Methods(http.MethodPut)
	adminRouter.HandleFunc("/colors/{colorID}/images", adminHandler.AddImage).Methods(http.MethodPost)
	adminRouter.HandleFunc("/orders", adminHandler.GetOrders).Methods(http.MethodGet)
	adminRouter.HandleFunc("/orders/{id}/status", adminHandler.UpdateOrderStatus).Methods(http.MethodPut)

	return router
}
