// Package cart implements the shopping cart as a pure value type. Mutations
// have no side effects; persistence is layered on top by the session package.
package cart

import (
	"github.com/shopspring/decimal"

	"github.com/merkatoshop/storefront/internal/catalog"
)

// Item is one cart line: a snapshot of the product's display fields at
// add-time plus a quantity. There is at most one Item per product ID.
type Item struct {
	ID       int             `json:"id"`
	Title    string          `json:"title"`
	Price    decimal.Decimal `json:"price"`
	Image    string          `json:"image"`
	Category string          `json:"category"`
	Quantity int             `json:"quantity"`
}

// NewItem snapshots a catalog product into a cart line with the given
// quantity. Quantity must be >= 1; that is the caller's responsibility.
func NewItem(p catalog.Product, quantity int) Item {
	return Item{
		ID:       p.ID,
		Title:    p.Title,
		Price:    p.Price,
		Image:    p.Image,
		Category: p.Category,
		Quantity: quantity,
	}
}

// Cart holds the line items in insertion order. The zero value is an empty,
// usable cart. Totals are always derived by folding over the lines, never
// stored, so they cannot drift from the items.
type Cart struct {
	Items []Item `json:"items"`
}

// Add merges the item into the cart. If a line with the same product ID
// exists its quantity is incremented; otherwise the item becomes a new line.
func (c *Cart) Add(item Item) {
	for i := range c.Items {
		if c.Items[i].ID == item.ID {
			c.Items[i].Quantity += item.Quantity
			return
		}
	}
	c.Items = append(c.Items, item)
}

// UpdateQuantity replaces the quantity of the line with the given product ID.
// Quantities below 1 and unknown IDs are silently ignored.
func (c *Cart) UpdateQuantity(id, quantity int) {
	if quantity < 1 {
		return
	}
	for i := range c.Items {
		if c.Items[i].ID == id {
			c.Items[i].Quantity = quantity
			return
		}
	}
}

// Remove deletes the line with the given product ID, if present.
func (c *Cart) Remove(id int) {
	for i := range c.Items {
		if c.Items[i].ID == id {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			return
		}
	}
}

// Clear empties all lines.
func (c *Cart) Clear() {
	c.Items = nil
}

// Find returns the line with the given product ID.
func (c *Cart) Find(id int) (Item, bool) {
	for _, item := range c.Items {
		if item.ID == id {
			return item, true
		}
	}
	return Item{}, false
}

// TotalQuantity is the sum of all line quantities.
func (c *Cart) TotalQuantity() int {
	total := 0
	for _, item := range c.Items {
		total += item.Quantity
	}
	return total
}

// TotalPrice is the sum of unit price times quantity over all lines, in the
// base currency.
func (c *Cart) TotalPrice() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.Items {
		total = total.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total
}

// Len returns the number of distinct lines.
func (c *Cart) Len() int {
	return len(c.Items)
}
