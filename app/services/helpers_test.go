package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/snap"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/Rakhulsr/sho-storefront/app/models"
	"github.com/Rakhulsr/sho-storefront/app/models/migrations"
	"github.com/Rakhulsr/sho-storefront/app/repositories"
	"github.com/Rakhulsr/sho-storefront/app/utils/metrics"
)

const testServerKey = "SB-Mid-server-test"

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, migrations.AutoMigrate(db))
	return db
}

type fakeSnap struct {
	mu       sync.Mutex
	err      *midtrans.Error
	requests []*snap.Request
}

func (f *fakeSnap) CreateTransaction(req *snap.Request) (*snap.Response, *midtrans.Error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, req)
	if f.err != nil {
		return nil, f.err
	}
	return &snap.Response{
		Token:       "snap-token-" + req.TransactionDetails.OrderID,
		RedirectURL: "https://app.sandbox.midtrans.com/snap/v2/vtweb/" + req.TransactionDetails.OrderID,
	}, nil
}

type recordingMailer struct {
	mu   sync.Mutex
	sent []string
}

func (m *recordingMailer) SendHTMLEmail(ctx context.Context, to, subject, htmlBody string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, to+"|"+subject)
	return nil
}

func (m *recordingMailer) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}

type fixture struct {
	db          *gorm.DB
	user        *models.User
	category    *models.Category
	product     *models.Product
	color       *models.ProductColor
	cartRepo    repositories.CartRepository
	colorRepo   repositories.ProductColorRepository
	orderRepo   repositories.OrderRepository
	profileRepo repositories.ProfileRepository
	pricing     *PricingService
	carts       *CartService
	checkout    *CheckoutService
	snap        *fakeSnap
	mailer      *recordingMailer
}

// newFixture seeds one customer and a product priced 500 with a single
// color holding 5 units.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	db := newTestDB(t)
	log := zap.NewNop()
	m := metrics.NewNop()

	f := &fixture{
		db:          db,
		cartRepo:    repositories.NewMemoryCartRepository(),
		colorRepo:   repositories.NewProductColorRepository(db),
		orderRepo:   repositories.NewOrderRepository(db),
		profileRepo: repositories.NewProfileRepository(db),
		snap:        &fakeSnap{},
		mailer:      &recordingMailer{},
	}

	userRepo := repositories.NewUserRepository(db)
	f.user = &models.User{Name: "Asha", Email: "asha@example.com", Password: "x", Role: models.RoleCustomer}
	require.NoError(t, userRepo.Create(ctx, f.user))

	f.category = &models.Category{Name: "Shirts", Slug: "shirts"}
	require.NoError(t, repositories.NewCategoryRepository(db).Create(ctx, f.category))

	productRepo := repositories.NewProductRepository(db)
	f.product = &models.Product{
		CategoryID: f.category.ID,
		Name:       "Linen Shirt",
		Slug:       "linen-shirt",
		Price:      decimal.NewFromInt(500),
	}
	require.NoError(t, productRepo.Create(ctx, f.product))
	f.color = &models.ProductColor{ProductID: f.product.ID, Color: "Navy", Qty: 5}
	require.NoError(t, f.colorRepo.Create(ctx, f.color))

	f.pricing = NewPricingService(f.profileRepo, f.orderRepo)
	f.carts = NewCartService(productRepo, f.colorRepo, f.pricing, m)

	gateway := NewMidtransService(f.snap, nil, testServerKey, "http://localhost:8080", 0, log, m)
	f.checkout = NewCheckoutService(
		db,
		f.orderRepo,
		repositories.NewOrderItemRepository(db),
		f.colorRepo,
		f.profileRepo,
		userRepo,
		f.cartRepo,
		f.pricing,
		gateway,
		f.mailer,
		"IDR",
		log,
		m,
	)
	return f
}

func (f *fixture) stock(t *testing.T) int {
	t.Helper()
	color, err := f.colorRepo.GetByID(context.Background(), f.color.ID)
	require.NoError(t, err)
	return color.Qty
}

func (f *fixture) profile(t *testing.T) *models.Profile {
	t.Helper()
	p, err := f.profileRepo.GetOrCreate(context.Background(), nil, f.user.ID)
	require.NoError(t, err)
	return p
}

func midtransCallback(order *models.Order, grossAmount, status string) *PaymentCallback {
	return &PaymentCallback{
		OrderID:           order.OrderCode,
		GatewayOrderID:    order.OrderCode,
		PaymentID:         "txn-" + order.OrderCode,
		StatusCode:        "200",
		GrossAmount:       grossAmount,
		TransactionStatus: status,
		Signature:         MidtransSignature(order.OrderCode, "200", grossAmount, testServerKey),
	}
}
