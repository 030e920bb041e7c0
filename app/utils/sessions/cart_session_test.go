package sessions

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rakhulsr/sho-storefront/app/models"
)

func testProduct(id string, price int64) *models.Product {
	return &models.Product{ID: id, Name: "Product " + id, Price: decimal.NewFromInt(price)}
}

func testColor(id, productID string) *models.ProductColor {
	return &models.ProductColor{
		ID:        id,
		ProductID: productID,
		Color:     "Navy",
		Qty:       10,
		Images:    []models.ProductImage{{Path: "/img/" + id + ".jpg"}},
	}
}

func TestCartAddAccumulates(t *testing.T) {
	cart := NewCart("c1")
	p := testProduct("p1", 250)
	c := testColor("k1", "p1")

	require.NoError(t, cart.Add(p, c, 2))
	require.NoError(t, cart.Add(p, c, 3))

	line, ok := cart.Line("k1")
	require.True(t, ok)
	assert.Equal(t, 5, line.Qty)
	assert.Equal(t, "/img/k1.jpg", line.Image)
	assert.True(t, decimal.NewFromInt(1250).Equal(cart.Subtotal()))
	assert.Equal(t, 5, cart.Count())
	assert.True(t, cart.Modified())

	assert.ErrorIs(t, cart.Add(p, c, 0), ErrInvalidQuantity)
	assert.ErrorIs(t, cart.Add(p, c, -1), ErrInvalidQuantity)
}

func TestCartKeepsPriceAtAddTime(t *testing.T) {
	cart := NewCart("c1")
	p := testProduct("p1", 250)
	c := testColor("k1", "p1")
	require.NoError(t, cart.Add(p, c, 1))

	p.Price = decimal.NewFromInt(999)
	require.NoError(t, cart.Add(p, c, 1))

	line, _ := cart.Line("k1")
	assert.True(t, decimal.NewFromInt(250).Equal(line.Price))
}

func TestCartUpdateQuantityNeverBelowOne(t *testing.T) {
	cart := NewCart("c1")
	require.NoError(t, cart.Add(testProduct("p1", 100), testColor("k1", "p1"), 4))

	line, ok := cart.UpdateQuantity("k1", 0)
	require.True(t, ok)
	assert.Equal(t, 1, line.Qty)

	line, ok = cart.UpdateQuantity("k1", 7)
	require.True(t, ok)
	assert.Equal(t, 7, line.Qty)

	_, ok = cart.UpdateQuantity("missing", 2)
	assert.False(t, ok)
}

func TestCartItemsInInsertionOrder(t *testing.T) {
	cart := NewCart("c1")
	for _, id := range []string{"z", "a", "m"} {
		require.NoError(t, cart.Add(testProduct("p"+id, 10), testColor(id, "p"+id), 1))
	}

	var keys []string
	for _, item := range cart.Items() {
		keys = append(keys, item.Key)
	}
	assert.Equal(t, []string{"z", "a", "m"}, keys)
}

func TestCartRemoveAndClear(t *testing.T) {
	cart := NewCart("c1")
	require.NoError(t, cart.Add(testProduct("p1", 10), testColor("k1", "p1"), 1))
	require.NoError(t, cart.Add(testProduct("p2", 10), testColor("k2", "p2"), 1))
	cart.MarkSaved()

	cart.Remove("missing")
	assert.False(t, cart.Modified(), "removing an absent key changes nothing")

	cart.Remove("k1")
	assert.True(t, cart.Modified())
	assert.Equal(t, 1, cart.Count())

	cart.Clear()
	assert.True(t, cart.IsEmpty())
	assert.True(t, cart.Subtotal().IsZero())
}
