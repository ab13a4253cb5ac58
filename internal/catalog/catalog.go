// Package catalog consumes the external product catalog API and exposes the
// read operations the storefront pages are built on. The API is the source of
// truth for products and categories; nothing here is ever written back.
package catalog

import (
	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// ErrNotFound is returned by the client when a requested product does not
// exist in the upstream catalog.
var ErrNotFound = errors.New("product not found")

// Product is a catalog item as served by the upstream API. Prices are
// denominated in the base currency (USD).
type Product struct {
	ID          int
	Title       string
	Description string
	Price       decimal.Decimal
	Category    string
	Image       string
	Rating      Rating
}

// Rating is the aggregate review score of a product.
type Rating struct {
	Rate  float64
	Count int
}

// Page is a client-side slice of the full product list. The upstream API has
// no pagination contract, so pages are computed by slicing.
type Page struct {
	Items       []Product
	CurrentPage int
	TotalPages  int
	TotalCount  int
}

// DefaultPageSize is the number of products per page when the caller does not
// specify one.
const DefaultPageSize = 10

// Paginate slices products into the requested page. Page numbers are 1-based;
// out-of-range pages yield an empty item list with correct totals.
func Paginate(products []Product, page, pageSize int) Page {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}

	total := len(products)
	totalPages := total / pageSize
	if total%pageSize > 0 {
		totalPages++
	}

	start := (page - 1) * pageSize
	if start > total {
		start = total
	}
	end := start + pageSize
	if end > total {
		end = total
	}

	return Page{
		Items:       products[start:end],
		CurrentPage: page,
		TotalPages:  totalPages,
		TotalCount:  total,
	}
}
