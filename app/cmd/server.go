package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Rakhulsr/sho-storefront/app/configs"
	"github.com/Rakhulsr/sho-storefront/app/middlewares"
	"github.com/Rakhulsr/sho-storefront/app/repositories"
	"github.com/Rakhulsr/sho-storefront/app/routes"
	"github.com/Rakhulsr/sho-storefront/app/services"
	"github.com/Rakhulsr/sho-storefront/app/utils/metrics"
	"github.com/Rakhulsr/sho-storefront/app/utils/renderer"
	"github.com/Rakhulsr/sho-storefront/app/utils/sessions"
)

func newPaymentGateway(env configs.ENV, log *zap.Logger, m *metrics.Metrics) (services.PaymentGateway, error) {
	switch strings.ToLower(env.PaymentProvider) {
	case "midtrans":
		if !strings.EqualFold(env.PaymentCurrency, services.MidtransCurrency) {
			return nil, fmt.Errorf("%w: PAYMENT_PROVIDER=midtrans requires PAYMENT_CURRENCY=%s, got %q",
				services.ErrUnsupportedCurrency, services.MidtransCurrency, env.PaymentCurrency)
		}
		if env.MidtransServerKey == "" {
			return nil, errors.New("MIDTRANS_SERVER_KEY environment variable not set")
		}
		snapClient, coreClient := configs.NewMidtransClients(env)
		return services.NewMidtransService(&snapClient, &coreClient, env.MidtransServerKey, env.AppURL, env.PaymentTimeout, log, m), nil
	case "stripe":
		if env.StripeSecretKey == "" || env.StripeWebhookSecret == "" {
			return nil, errors.New("STRIPE_SECRET_KEY and STRIPE_WEBHOOK_SECRET must be set")
		}
		gateway := services.NewStripeService(env.StripeSecretKey, env.StripeWebhookSecret, log, m)
		if _, err := gateway.MinorUnits(decimal.Zero, env.PaymentCurrency); err != nil {
			return nil, err
		}
		return gateway, nil
	default:
		return nil, fmt.Errorf("unknown PAYMENT_PROVIDER %q", env.PaymentProvider)
	}
}

func newCartRepository(ctx context.Context, env configs.ENV, log *zap.Logger) (repositories.CartRepository, func(context.Context) error, error) {
	if env.RedisAddr == "" {
		log.Warn("REDIS_ADDR not set, carts are kept in process memory")
		return repositories.NewMemoryCartRepository(), nil, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     env.RedisAddr,
		Password: env.RedisPassword,
		DB:       env.RedisDB,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("failed to connect to redis at %s: %w", env.RedisAddr, err)
	}
	log.Info("redis connected", zap.String("addr", env.RedisAddr))

	ping := func(ctx context.Context) error { return client.Ping(ctx).Err() }
	return repositories.NewRedisCartRepository(client, env.CartTTL), ping, nil
}

func healthCheck(db *gorm.DB, redisPing func(context.Context) error) func(r *http.Request) error {
	return func(r *http.Request) error {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		if err := sqlDB.PingContext(ctx); err != nil {
			return err
		}
		if redisPing != nil {
			return redisPing(ctx)
		}
		return nil
	}
}

// Serve wires the application and blocks until ctx is cancelled.
func Serve(ctx context.Context, env configs.ENV, log *zap.Logger) error {
	db, err := configs.OpenConnection(env, log)
	if err != nil {
		return err
	}

	keys, err := configs.LoadSessionKeys(env)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg, "sho")

	gateway, err := newPaymentGateway(env, log, m)
	if err != nil {
		return err
	}
	cartRepo, redisPing, err := newCartRepository(ctx, env, log)
	if err != nil {
		return err
	}

	userRepo := repositories.NewUserRepository(db)
	productRepo := repositories.NewProductRepository(db)
	colorRepo := repositories.NewProductColorRepository(db)
	orderRepo := repositories.NewOrderRepository(db)
	profileRepo := repositories.NewProfileRepository(db)

	pricing := services.NewPricingService(profileRepo, orderRepo)
	mailer := services.NewMailer(services.MailConfig{
		Host:     env.EmailHost,
		Port:     env.EmailPort,
		Username: env.EmailUsername,
		Password: env.EmailPassword,
		From:     env.EmailFrom,
	})
	if env.EmailHost == "" {
		log.Warn("EMAIL_HOST not set, order confirmation emails are disabled")
	}

	svc := routes.Services{
		Auth: services.NewAuthService(userRepo),
		Catalog: services.NewCatalogService(
			repositories.NewCategoryRepository(db),
			productRepo,
			colorRepo,
			repositories.NewReviewRepository(db),
		),
		Cart: services.NewCartService(productRepo, colorRepo, pricing, m),
		Checkout: services.NewCheckoutService(
			db,
			orderRepo,
			repositories.NewOrderItemRepository(db),
			colorRepo,
			profileRepo,
			userRepo,
			cartRepo,
			pricing,
			gateway,
			mailer,
			env.PaymentCurrency,
			log,
			m,
		),
		Orders:   services.NewOrderService(orderRepo),
		Wishlist: services.NewWishlistService(repositories.NewWishlistRepository(db), productRepo),
	}

	router := routes.NewRouter(routes.Options{
		Services:     svc,
		CartRepo:     cartRepo,
		UserRepo:     userRepo,
		SessionStore: sessions.NewCookieSessionStore(log, env.IsProduction(), keys.AuthKey, keys.EncKey),
		Render:       renderer.New(!env.IsProduction()),
		Logger:       log,
		Metrics:      m,
		Gatherer:     reg,
		CSRFKey:      keys.CSRFKey,
		Secure:       env.IsProduction(),
		HealthCheck:  healthCheck(db, redisPing),
	})

	server := &http.Server{
		Addr:              env.Port,
		Handler:           middlewares.MethodOverrideMiddleware(router),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      env.PaymentTimeout + 30*time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server starting",
			zap.String("addr", server.Addr),
			zap.String("payment_provider", gateway.Name()),
			zap.String("env", env.AppEnv),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
