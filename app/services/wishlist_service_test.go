package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rakhulsr/sho-storefront/app/repositories"
)

func TestWishlistService(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := NewWishlistService(repositories.NewWishlistRepository(f.db), repositories.NewProductRepository(f.db))

	require.NoError(t, svc.Add(ctx, f.user.ID, f.product.ID))
	require.NoError(t, svc.Add(ctx, f.user.ID, f.product.ID), "adding twice is a no-op")

	items, err := svc.List(ctx, f.user.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.NotNil(t, items[0].Product)
	assert.Equal(t, f.product.Name, items[0].Product.Name)

	assert.ErrorIs(t, svc.Add(ctx, f.user.ID, "missing"), ErrProductNotFound)

	require.NoError(t, svc.Remove(ctx, f.user.ID, f.product.ID))
	require.NoError(t, svc.Remove(ctx, f.user.ID, f.product.ID), "removing twice is a no-op")
	items, err = svc.List(ctx, f.user.ID)
	require.NoError(t, err)
	assert.Empty(t, items)
}
