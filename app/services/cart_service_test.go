package services

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rakhulsr/sho-storefront/app/utils/sessions"
)

func TestCartServiceAddItem(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	cart := sessions.NewCart("c1")

	require.NoError(t, f.carts.AddItem(ctx, cart, f.product.ID, f.color.ID, 2))
	require.NoError(t, f.carts.AddItem(ctx, cart, f.product.ID, f.color.ID, 1))

	line, ok := cart.Line(f.color.ID)
	require.True(t, ok)
	assert.Equal(t, 3, line.Qty, "quantities accumulate on the same color")
	assert.True(t, decimal.NewFromInt(500).Equal(line.Price))

	err := f.carts.AddItem(ctx, cart, f.product.ID, f.color.ID, 3)
	assert.ErrorIs(t, err, ErrInsufficientStock)
	line, _ = cart.Line(f.color.ID)
	assert.Equal(t, 3, line.Qty, "rejected add leaves the line alone")

	assert.ErrorIs(t, f.carts.AddItem(ctx, cart, f.product.ID, f.color.ID, 0), ErrInvalidQuantity)
	assert.ErrorIs(t, f.carts.AddItem(ctx, cart, "missing", f.color.ID, 1), ErrProductNotFound)
	assert.ErrorIs(t, f.carts.AddItem(ctx, cart, f.product.ID, "missing", 1), ErrColorNotFound)
}

func TestCartServiceUpdateQuantity(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	cart := sessions.NewCart("c1")
	require.NoError(t, f.carts.AddItem(ctx, cart, f.product.ID, f.color.ID, 1))

	t.Run("within stock", func(t *testing.T) {
		update, err := f.carts.UpdateQuantity(ctx, "", cart, f.color.ID, 2)
		require.NoError(t, err)
		assert.Equal(t, 2, update.Quantity)
		assert.False(t, update.WasClamped)
		assert.True(t, decimal.NewFromInt(1000).Equal(update.LineTotal))
		assert.True(t, decimal.NewFromInt(50).Equal(update.Discount))
		assert.True(t, decimal.NewFromInt(950).Equal(update.CartTotal))
	})

	t.Run("clamped to stock", func(t *testing.T) {
		update, err := f.carts.UpdateQuantity(ctx, "", cart, f.color.ID, 40)
		require.NoError(t, err)
		assert.Equal(t, 5, update.Quantity)
		assert.True(t, update.WasClamped)
		assert.Equal(t, 5, update.Available)
	})

	t.Run("below one", func(t *testing.T) {
		_, err := f.carts.UpdateQuantity(ctx, "", cart, f.color.ID, 0)
		assert.ErrorIs(t, err, ErrInvalidQuantity)
		line, _ := cart.Line(f.color.ID)
		assert.Equal(t, 5, line.Qty)
	})

	t.Run("unknown key", func(t *testing.T) {
		_, err := f.carts.UpdateQuantity(ctx, "", cart, "nope", 1)
		assert.ErrorIs(t, err, ErrCartItemNotFound)
	})

	t.Run("sold out", func(t *testing.T) {
		require.NoError(t, f.colorRepo.SetStock(ctx, f.color.ID, 0))
		update, err := f.carts.UpdateQuantity(ctx, "", cart, f.color.ID, 3)
		assert.ErrorIs(t, err, ErrInsufficientStock)
		assert.Nil(t, update)
		line, _ := cart.Line(f.color.ID)
		assert.Equal(t, 5, line.Qty, "a sold-out color leaves the line untouched")
	})
}

func TestCartServiceSummary(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	cart := sessions.NewCart("c1")
	require.NoError(t, f.carts.AddItem(ctx, cart, f.product.ID, f.color.ID, 2))

	summary, err := f.carts.Summary(ctx, f.user.ID, cart)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Count)
	assert.True(t, decimal.NewFromInt(1000).Equal(summary.Subtotal))
	assert.True(t, decimal.NewFromInt(50).Equal(summary.Discount))
	assert.True(t, decimal.NewFromInt(950).Equal(summary.Total))
	assert.False(t, summary.IsVIP)

	require.NoError(t, f.profileRepo.MarkFirstOrderUsed(ctx, nil, f.user.ID))
	summary, err = f.carts.Summary(ctx, f.user.ID, cart)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(100).Equal(summary.Discount))
}

func TestCartServiceStockQuantity(t *testing.T) {
	f := newFixture(t)
	qty, err := f.carts.StockQuantity(context.Background(), f.product.ID, f.color.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, qty)

	_, err = f.carts.StockQuantity(context.Background(), f.product.ID, "missing")
	assert.ErrorIs(t, err, ErrColorNotFound)
}
