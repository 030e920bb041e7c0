package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rakhulsr/sho-storefront/app/models"
)

func TestOrderServiceUpdateStatus(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := NewOrderService(f.orderRepo)

	initiated, err := f.checkout.Initiate(ctx, f.user, f.cartWithTwo(t), validCheckoutRequest())
	require.NoError(t, err)
	orderID := initiated.Order.ID

	_, err = svc.UpdateStatus(ctx, orderID, models.OrderStatusShipped)
	assert.ErrorIs(t, err, ErrInvalidStatus, "pending orders can only be cancelled")
	_, err = svc.UpdateStatus(ctx, orderID, models.OrderStatusConfirmed)
	assert.ErrorIs(t, err, ErrInvalidStatus, "confirmation belongs to checkout")
	_, err = svc.UpdateStatus(ctx, orderID, "Lost")
	assert.ErrorIs(t, err, ErrInvalidStatus)

	_, err = f.checkout.Confirm(ctx, midtransCallback(initiated.Order, "1010.00", "settlement"))
	require.NoError(t, err)

	order, err := svc.UpdateStatus(ctx, orderID, models.OrderStatusShipped)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusShipped, order.Status)

	_, err = svc.UpdateStatus(ctx, "missing", models.OrderStatusShipped)
	assert.ErrorIs(t, err, ErrOrderNotFound)

	orders, err := svc.MyOrders(ctx, f.user.ID)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Len(t, orders[0].OrderItems, 1)

	all, total, err := svc.AllOrders(ctx, models.OrderStatusShipped, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, all, 1)
}
