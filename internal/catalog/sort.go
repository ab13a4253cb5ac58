package catalog

import "sort"

// SortKey selects a listing sort order. Unknown values behave as SortDefault.
type SortKey string

const (
	SortDefault   SortKey = "default"
	SortPriceLow  SortKey = "price-low"
	SortPriceHigh SortKey = "price-high"
	SortRating    SortKey = "rating"
	SortNameAZ    SortKey = "name-az"
	SortNameZA    SortKey = "name-za"
)

// ParseSortKey maps a query-string value to a SortKey, falling back to
// SortDefault for anything unrecognized.
func ParseSortKey(s string) SortKey {
	switch k := SortKey(s); k {
	case SortPriceLow, SortPriceHigh, SortRating, SortNameAZ, SortNameZA:
		return k
	default:
		return SortDefault
	}
}

// SortProducts returns a sorted copy of products. The input slice is not
// modified; sorts are stable so equal elements keep their catalog order.
func SortProducts(products []Product, key SortKey) []Product {
	out := make([]Product, len(products))
	copy(out, products)

	switch key {
	case SortPriceLow:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].Price.LessThan(out[j].Price)
		})
	case SortPriceHigh:
		sort.SliceStable(out, func(i, j int) bool {
			return out[j].Price.LessThan(out[i].Price)
		})
	case SortRating:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].Rating.Rate > out[j].Rating.Rate
		})
	case SortNameAZ:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].Title < out[j].Title
		})
	case SortNameZA:
		sort.SliceStable(out, func(i, j int) bool {
			return out[j].Title < out[i].Title
		})
	default:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].ID < out[j].ID
		})
	}
	return out
}
