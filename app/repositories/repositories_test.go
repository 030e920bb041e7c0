package repositories

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/Rakhulsr/sho-storefront/app/models"
	"github.com/Rakhulsr/sho-storefront/app/models/migrations"
	"github.com/Rakhulsr/sho-storefront/app/utils/sessions"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name)),
		&gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, migrations.AutoMigrate(db))
	return db
}

func seedProduct(t *testing.T, db *gorm.DB, qty int) (*models.Product, *models.ProductColor) {
	t.Helper()
	ctx := context.Background()
	category := &models.Category{Name: "Shirts", Slug: "shirts"}
	require.NoError(t, NewCategoryRepository(db).Create(ctx, category))
	product := &models.Product{CategoryID: category.ID, Name: "Shirt", Slug: "shirt", Price: decimal.NewFromInt(100)}
	require.NoError(t, NewProductRepository(db).Create(ctx, product))
	color := &models.ProductColor{ProductID: product.ID, Color: "Navy", Qty: qty}
	require.NoError(t, NewProductColorRepository(db).Create(ctx, color))
	return product, color
}

func TestMemoryCartRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryCartRepository()

	empty, err := repo.Load(ctx, "c1")
	require.NoError(t, err)
	assert.True(t, empty.IsEmpty())

	cart := sessions.NewCart("c1")
	product := &models.Product{ID: "p1", Name: "Shirt", Price: decimal.RequireFromString("199.50")}
	require.NoError(t, cart.Add(product, &models.ProductColor{ID: "k1", ProductID: "p1", Color: "Navy"}, 2))
	require.NoError(t, repo.Save(ctx, cart))
	assert.False(t, cart.Modified())

	loaded, err := repo.Load(ctx, "c1")
	require.NoError(t, err)
	line, ok := loaded.Line("k1")
	require.True(t, ok)
	assert.Equal(t, 2, line.Qty)
	assert.True(t, decimal.RequireFromString("399").Equal(loaded.Subtotal()))

	require.NoError(t, repo.Delete(ctx, "c1"))
	gone, err := repo.Load(ctx, "c1")
	require.NoError(t, err)
	assert.True(t, gone.IsEmpty())
}

func TestDecrementStockIsConditional(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	_, color := seedProduct(t, db, 3)
	repo := NewProductColorRepository(db)

	ok, err := repo.DecrementStock(ctx, nil, color.ID, 2)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.DecrementStock(ctx, nil, color.ID, 2)
	require.NoError(t, err)
	assert.False(t, ok, "only one unit left")

	stored, err := repo.GetByID(ctx, color.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.Qty)
}

func TestProfilePoints(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	user := &models.User{Name: "Meera", Email: "meera@example.com", Password: "x"}
	require.NoError(t, NewUserRepository(db).Create(ctx, user))
	repo := NewProfileRepository(db)
	_, err := repo.GetOrCreate(ctx, nil, user.ID)
	require.NoError(t, err)

	require.NoError(t, repo.AddPoints(ctx, nil, user.ID, 40))
	ok, err := repo.DeductPoints(ctx, nil, user.ID, 50)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = repo.DeductPoints(ctx, nil, user.ID, 40)
	require.NoError(t, err)
	assert.True(t, ok)

	profile, err := repo.GetOrCreate(ctx, nil, user.ID)
	require.NoError(t, err)
	assert.Zero(t, profile.LoyaltyPoints)

	require.NoError(t, repo.MarkFirstOrderUsed(ctx, nil, user.ID))
	profile, err = repo.GetOrCreate(ctx, nil, user.ID)
	require.NoError(t, err)
	assert.True(t, profile.FirstOrderOfferUsed)
}

func TestWishlistAddIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	product, _ := seedProduct(t, db, 1)
	repo := NewWishlistRepository(db)

	wishlist, err := repo.GetOrCreate(ctx, "user-1")
	require.NoError(t, err)
	again, err := repo.GetOrCreate(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, wishlist.ID, again.ID)

	require.NoError(t, repo.AddItem(ctx, wishlist.ID, product.ID))
	require.NoError(t, repo.AddItem(ctx, wishlist.ID, product.ID))

	items, err := repo.ListItems(ctx, wishlist.ID)
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestOrdersNewestFirst(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := NewOrderRepository(db)

	for i, code := range []string{"SHO-A", "SHO-B", "SHO-C"} {
		order := &models.Order{
			UserID:    "user-1",
			OrderCode: code,
			Status:    models.OrderStatusPending,
			Address:   "12 MG Road",
			Phone:     "9876543210",
			Pincode:   "600001",
			Currency:  "INR",
		}
		require.NoError(t, repo.Create(ctx, nil, order))
		// created_at must differ for a stable order
		require.NoError(t, db.Model(order).UpdateColumn("created_at", order.CreatedAt.AddDate(0, 0, i)).Error)
	}

	orders, err := repo.FindByUserID(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, orders, 3)
	assert.Equal(t, "SHO-C", orders[0].OrderCode)
	assert.Equal(t, "SHO-A", orders[2].OrderCode)

	moved, err := repo.TransitionStatus(ctx, nil, orders[0].ID, models.OrderStatusPending, models.OrderStatusConfirmed)
	require.NoError(t, err)
	assert.True(t, moved)
	moved, err = repo.TransitionStatus(ctx, nil, orders[0].ID, models.OrderStatusPending, models.OrderStatusConfirmed)
	require.NoError(t, err)
	assert.False(t, moved, "second transition from Pending finds nothing")
}

func TestDeletePendingKeepsConfirmedOrders(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := NewOrderRepository(db)

	newOrder := func(code string) *models.Order {
		order := &models.Order{
			UserID:    "user-1",
			OrderCode: code,
			Status:    models.OrderStatusPending,
			Address:   "12 MG Road",
			Phone:     "9876543210",
			Pincode:   "600001",
			Currency:  "INR",
		}
		require.NoError(t, repo.Create(ctx, nil, order))
		return order
	}
	pending := newOrder("SHO-P")
	confirmed := newOrder("SHO-C")
	moved, err := repo.TransitionStatus(ctx, nil, confirmed.ID, models.OrderStatusPending, models.OrderStatusConfirmed)
	require.NoError(t, err)
	require.True(t, moved)

	require.NoError(t, repo.DeletePending(ctx, pending.ID))
	require.NoError(t, repo.DeletePending(ctx, confirmed.ID))

	gone, err := repo.GetByID(ctx, pending.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)
	kept, err := repo.GetByID(ctx, confirmed.ID)
	require.NoError(t, err)
	require.NotNil(t, kept)
	assert.Equal(t, models.OrderStatusConfirmed, kept.Status)
}
