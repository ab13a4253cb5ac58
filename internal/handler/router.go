package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/merkatoshop/storefront/internal/i18n"
)

// Routes builds the storefront router. Every route is mounted twice: once at
// the root for the default locale and once under each non-default locale's
// path prefix.
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()

	h.mount(r, i18n.Default, "")
	for _, locale := range i18n.Supported() {
		if locale == i18n.Default {
			continue
		}
		prefix := "/" + locale
		r.Route(prefix, func(sub chi.Router) {
			h.mount(sub, locale, prefix)
		})
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		h.notFound(w, r, loadSession(w, r), i18n.Default, "")
	})

	return r
}

func (h *Handler) mount(r chi.Router, locale, prefix string) {
	r.Get("/", h.Home(locale, prefix))
	r.Get("/products", h.Products(locale, prefix))
	r.Get("/products/{id}", h.ProductDetail(locale, prefix))
	r.Get("/categories/{category}", h.Category(locale, prefix))
	r.Get("/search", h.Search(locale, prefix))
	r.Get("/cart", h.CartPage(locale, prefix))

	r.Post("/cart/items", h.AddToCart(locale, prefix))
	r.Post("/cart/items/{id}", h.UpdateQuantity(locale, prefix))
	r.Post("/cart/items/{id}/remove", h.RemoveFromCart(locale, prefix))
	r.Post("/cart/clear", h.ClearCart(locale, prefix))
	r.Post("/cart/toggle", h.ToggleCart(locale, prefix))
	r.Post("/currency", h.ChangeCurrency(locale, prefix))
	r.Post("/language", h.ChangeLanguage(locale, prefix))
}
