package handler

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/merkatoshop/storefront/internal/catalog"
)

// sortOption is one entry of the listing sort select.
type sortOption struct {
	Value    string
	Label    string
	Selected bool
}

var sortLabels = []struct {
	key   catalog.SortKey
	label string
}{
	{catalog.SortDefault, "sortDefault"},
	{catalog.SortPriceLow, "sortPriceLow"},
	{catalog.SortPriceHigh, "sortPriceHigh"},
	{catalog.SortRating, "sortRating"},
	{catalog.SortNameAZ, "sortNameAZ"},
	{catalog.SortNameZA, "sortNameZA"},
}

func sortOptions(t func(string) string, active catalog.SortKey) []sortOption {
	out := make([]sortOption, 0, len(sortLabels))
	for _, s := range sortLabels {
		out = append(out, sortOption{
			Value:    string(s.key),
			Label:    t(s.label),
			Selected: s.key == active,
		})
	}
	return out
}

// Home renders the landing page: categories, featured products (first 4), and
// new arrivals (first 8).
func (h *Handler) Home(locale, prefix string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := loadSession(w, r)
		t := h.translator.Func(locale)

		products, categories := h.catalog.HomeSnapshot(r.Context())
		cur := sess.Currency()

		links := make([]categoryLink, 0, len(categories))
		for _, c := range categories {
			links = append(links, categoryLink{Name: c, URL: categoryURL(prefix, c)})
		}

		data := struct {
			Base
			Categories  []categoryLink
			Featured    []productView
			NewArrivals []productView
		}{
			Base:        h.base(r, sess, locale, prefix, t("siteTitle")+" - "+t("tagline")),
			Categories:  links,
			Featured:    h.productViews(firstN(products, 4), cur, prefix),
			NewArrivals: h.productViews(firstN(products, 8), cur, prefix),
		}
		h.render(w, r, http.StatusOK, "home", data)
	}
}

// Products renders the full listing with client-side sort and pagination.
func (h *Handler) Products(locale, prefix string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := loadSession(w, r)
		t := h.translator.Func(locale)

		sortKey := catalog.ParseSortKey(r.URL.Query().Get("sort"))
		page := 1
		if v, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && v > 0 {
			page = v
		}

		all := catalog.SortProducts(h.catalog.ListProducts(r.Context(), 0), sortKey)
		pg := catalog.Paginate(all, page, catalog.DefaultPageSize)

		data := struct {
			Base
			Products    []productView
			SortOptions []sortOption
			CurrentPage int
			TotalPages  int
			HasPrev     bool
			HasNext     bool
			PrevURL     string
			NextURL     string
		}{
			Base:        h.base(r, sess, locale, prefix, t("viewAll")+" | "+t("siteTitle")),
			Products:    h.productViews(pg.Items, sess.Currency(), prefix),
			SortOptions: sortOptions(t, sortKey),
			CurrentPage: pg.CurrentPage,
			TotalPages:  pg.TotalPages,
			HasPrev:     pg.CurrentPage > 1,
			HasNext:     pg.CurrentPage < pg.TotalPages,
			PrevURL:     listingURL(prefix, sortKey, pg.CurrentPage-1),
			NextURL:     listingURL(prefix, sortKey, pg.CurrentPage+1),
		}
		h.render(w, r, http.StatusOK, "products", data)
	}
}

// Category renders the products of one category, 404 when the category yields
// zero products (unknown and legitimately empty are indistinguishable).
func (h *Handler) Category(locale, prefix string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := loadSession(w, r)
		t := h.translator.Func(locale)

		category := chi.URLParam(r, "category")
		products := h.catalog.ListProductsByCategory(r.Context(), category)
		if len(products) == 0 {
			h.notFound(w, r, sess, locale, prefix)
			return
		}

		sortKey := catalog.ParseSortKey(r.URL.Query().Get("sort"))
		products = catalog.SortProducts(products, sortKey)

		name := displayCategoryName(category)
		data := struct {
			Base
			CategoryName string
			Products     []productView
			SortOptions  []sortOption
		}{
			Base:         h.base(r, sess, locale, prefix, name+" | "+t("siteTitle")),
			CategoryName: name,
			Products:     h.productViews(products, sess.Currency(), prefix),
			SortOptions:  sortOptions(t, sortKey),
		}
		h.render(w, r, http.StatusOK, "category", data)
	}
}

// ProductDetail renders one product with up to 4 related products from the
// same category. Unknown or non-numeric IDs yield a 404 page.
func (h *Handler) ProductDetail(locale, prefix string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := loadSession(w, r)
		t := h.translator.Func(locale)

		id, err := strconv.Atoi(chi.URLParam(r, "id"))
		if err != nil {
			h.notFound(w, r, sess, locale, prefix)
			return
		}

		p := h.catalog.GetProduct(r.Context(), id)
		if p == nil {
			h.notFound(w, r, sess, locale, prefix)
			return
		}
		related := h.catalog.RelatedProducts(r.Context(), *p, 4)

		view := h.productView(*p, sess.Currency(), prefix)
		data := struct {
			Base
			Product     productView
			Description string
			CategoryURL string
			Related     []productView
		}{
			Base:        h.base(r, sess, locale, prefix, p.Title+" | "+t("siteTitle")),
			Product:     view,
			Description: p.Description,
			CategoryURL: categoryURL(prefix, p.Category),
			Related:     h.productViews(related, sess.Currency(), prefix),
		}
		h.render(w, r, http.StatusOK, "product", data)
	}
}

// Search renders products matching the query; a blank query lists everything.
func (h *Handler) Search(locale, prefix string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := loadSession(w, r)
		t := h.translator.Func(locale)

		query := r.URL.Query().Get("q")
		results := h.catalog.SearchProducts(r.Context(), query)

		data := struct {
			Base
			Query    string
			Products []productView
		}{
			Base:     h.base(r, sess, locale, prefix, t("searchResults")+" | "+t("siteTitle")),
			Query:    strings.TrimSpace(query),
			Products: h.productViews(results, sess.Currency(), prefix),
		}
		h.render(w, r, http.StatusOK, "search", data)
	}
}

// CartPage renders the cart with per-line and aggregate totals in the active
// currency.
func (h *Handler) CartPage(locale, prefix string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := loadSession(w, r)
		t := h.translator.Func(locale)

		data := struct {
			Base
			Lines []lineView
		}{
			Base:  h.base(r, sess, locale, prefix, t("cart")+" | "+t("siteTitle")),
			Lines: h.lineViews(sess, prefix),
		}
		h.render(w, r, http.StatusOK, "cart", data)
	}
}

func firstN(products []catalog.Product, n int) []catalog.Product {
	if len(products) < n {
		n = len(products)
	}
	return products[:n]
}

func listingURL(prefix string, key catalog.SortKey, page int) string {
	q := url.Values{}
	if key != catalog.SortDefault {
		q.Set("sort", string(key))
	}
	if page > 1 {
		q.Set("page", strconv.Itoa(page))
	}
	u := prefix + "/products"
	if enc := q.Encode(); enc != "" {
		u += "?" + enc
	}
	return u
}

// displayCategoryName title-cases a catalog category for headings, the way
// the listing page shows "Men's Clothing" for "men's clothing".
func displayCategoryName(category string) string {
	words := strings.Fields(category)
	for i, w := range words {
		r := []rune(w)
		if len(r) > 0 {
			words[i] = strings.ToUpper(string(r[0])) + string(r[1:])
		}
	}
	return strings.Join(words, " ")
}
