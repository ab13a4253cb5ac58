package cart

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/merkatoshop/storefront/internal/catalog"
)

// --- Helpers ---

func newTestItem(id int, price string, quantity int) Item {
	return Item{
		ID:       id,
		Title:    "Product",
		Price:    decimal.RequireFromString(price),
		Image:    "img.jpg",
		Category: "test",
		Quantity: quantity,
	}
}

// --- Tests ---

func TestNewItem_SnapshotsProduct(t *testing.T) {
	p := catalog.Product{
		ID:       7,
		Title:    "Backpack",
		Price:    decimal.RequireFromString("109.95"),
		Category: "men's clothing",
		Image:    "backpack.jpg",
	}

	item := NewItem(p, 3)

	assert.Equal(t, 7, item.ID)
	assert.Equal(t, "Backpack", item.Title)
	assert.True(t, item.Price.Equal(p.Price))
	assert.Equal(t, "men's clothing", item.Category)
	assert.Equal(t, "backpack.jpg", item.Image)
	assert.Equal(t, 3, item.Quantity)
}

func TestAdd_NewLine(t *testing.T) {
	var c Cart
	c.Add(newTestItem(1, "10.00", 2))

	require.Equal(t, 1, c.Len())
	assert.Equal(t, 2, c.TotalQuantity())
}

func TestAdd_MergesSameProduct(t *testing.T) {
	var c Cart
	c.Add(newTestItem(1, "10.00", 2))
	c.Add(newTestItem(1, "10.00", 3))

	require.Equal(t, 1, c.Len())
	item, ok := c.Find(1)
	require.True(t, ok)
	assert.Equal(t, 5, item.Quantity)
}

func TestAdd_PreservesInsertionOrder(t *testing.T) {
	var c Cart
	c.Add(newTestItem(3, "1.00", 1))
	c.Add(newTestItem(1, "1.00", 1))
	c.Add(newTestItem(2, "1.00", 1))
	c.Add(newTestItem(1, "1.00", 1))

	require.Equal(t, 3, c.Len())
	assert.Equal(t, 3, c.Items[0].ID)
	assert.Equal(t, 1, c.Items[1].ID)
	assert.Equal(t, 2, c.Items[2].ID)
}

func TestUpdateQuantity_ReplacesQuantity(t *testing.T) {
	var c Cart
	c.Add(newTestItem(1, "10.00", 2))

	c.UpdateQuantity(1, 7)

	item, ok := c.Find(1)
	require.True(t, ok)
	assert.Equal(t, 7, item.Quantity)
}

func TestUpdateQuantity_BelowOneIgnored(t *testing.T) {
	var c Cart
	c.Add(newTestItem(1, "10.00", 2))

	c.UpdateQuantity(1, 0)
	c.UpdateQuantity(1, -5)

	item, ok := c.Find(1)
	require.True(t, ok)
	assert.Equal(t, 2, item.Quantity)
}

func TestUpdateQuantity_UnknownIDIgnored(t *testing.T) {
	var c Cart
	c.Add(newTestItem(1, "10.00", 2))

	c.UpdateQuantity(99, 5)

	assert.Equal(t, 1, c.Len())
	assert.Equal(t, 2, c.TotalQuantity())
}

func TestRemove(t *testing.T) {
	var c Cart
	c.Add(newTestItem(1, "10.00", 1))
	c.Add(newTestItem(2, "20.00", 1))

	c.Remove(1)

	require.Equal(t, 1, c.Len())
	_, ok := c.Find(1)
	assert.False(t, ok)
	_, ok = c.Find(2)
	assert.True(t, ok)
}

func TestRemove_AbsentIDNoop(t *testing.T) {
	var c Cart
	c.Add(newTestItem(1, "10.00", 1))

	c.Remove(42)

	assert.Equal(t, 1, c.Len())
}

func TestClear(t *testing.T) {
	var c Cart
	c.Add(newTestItem(1, "10.00", 1))
	c.Add(newTestItem(2, "20.00", 1))

	c.Clear()

	assert.Equal(t, 0, c.Len())
	assert.Equal(t, 0, c.TotalQuantity())
	assert.True(t, c.TotalPrice().IsZero())
}

func TestTotals(t *testing.T) {
	var c Cart
	c.Add(newTestItem(1, "10.50", 2))
	c.Add(newTestItem(2, "5.25", 4))

	assert.Equal(t, 6, c.TotalQuantity())
	assert.True(t, c.TotalPrice().Equal(decimal.RequireFromString("42.00")),
		"got %s", c.TotalPrice())
}

func TestTotals_EmptyCart(t *testing.T) {
	var c Cart

	assert.Equal(t, 0, c.TotalQuantity())
	assert.True(t, c.TotalPrice().IsZero())
}

func TestTotals_MergedLines(t *testing.T) {
	var c Cart
	c.Add(newTestItem(1, "3.00", 2))
	c.Add(newTestItem(1, "3.00", 1))

	assert.Equal(t, 3, c.TotalQuantity())
	assert.True(t, c.TotalPrice().Equal(decimal.RequireFromString("9.00")))
}
