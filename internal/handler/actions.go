package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/merkatoshop/storefront/internal/domain/cart"
	"github.com/merkatoshop/storefront/internal/i18n"
)

// addToCartForm is the add-to-cart POST body. Quantity below 1 is rejected at
// the edge so the cart itself never sees it.
type addToCartForm struct {
	ProductID int `validate:"required,gt=0"`
	Quantity  int `validate:"required,gte=1"`
}

// AddToCart snapshots the product into the cart. Invalid input and unknown
// products are silently ignored; either way the visitor is sent back to the
// page they came from.
func (h *Handler) AddToCart(locale, prefix string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := loadSession(w, r)

		form := addToCartForm{Quantity: 1}
		if v := r.FormValue("product_id"); v != "" {
			form.ProductID, _ = strconv.Atoi(v)
		}
		if v := r.FormValue("quantity"); v != "" {
			form.Quantity, _ = strconv.Atoi(v)
		}
		if err := h.validate.Struct(form); err != nil {
			zctx.From(r.Context()).Debug("Rejected add to cart", zap.Error(err))
			redirectBack(w, r, prefix)
			return
		}

		p := h.catalog.GetProduct(r.Context(), form.ProductID)
		if p == nil {
			redirectBack(w, r, prefix)
			return
		}

		sess.AddToCart(cart.NewItem(*p, form.Quantity))
		redirectBack(w, r, prefix)
	}
}

// UpdateQuantity replaces a line's quantity. Quantities below 1 and unknown
// lines are no-ops.
func (h *Handler) UpdateQuantity(locale, prefix string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := loadSession(w, r)

		id, err := strconv.Atoi(chi.URLParam(r, "id"))
		if err == nil {
			if quantity, qerr := strconv.Atoi(r.FormValue("quantity")); qerr == nil {
				sess.UpdateQuantity(id, quantity)
			}
		}
		redirectBack(w, r, prefix)
	}
}

// RemoveFromCart removes a line, if present.
func (h *Handler) RemoveFromCart(locale, prefix string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := loadSession(w, r)

		if id, err := strconv.Atoi(chi.URLParam(r, "id")); err == nil {
			sess.RemoveFromCart(id)
		}
		redirectBack(w, r, prefix)
	}
}

// ClearCart empties the cart.
func (h *Handler) ClearCart(locale, prefix string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := loadSession(w, r)
		sess.ClearCart()
		redirectBack(w, r, prefix)
	}
}

// ToggleCart flips the cart drawer flag.
func (h *Handler) ToggleCart(locale, prefix string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := loadSession(w, r)
		sess.ToggleCartVisibility()
		redirectBack(w, r, prefix)
	}
}

// ChangeCurrency switches the active currency. Unknown codes leave the
// selection unchanged.
func (h *Handler) ChangeCurrency(locale, prefix string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := loadSession(w, r)
		sess.ChangeCurrency(r.FormValue("currency"))
		redirectBack(w, r, prefix)
	}
}

// ChangeLanguage redirects to the same logical page under the requested
// locale's path prefix. Unsupported locales keep the current one.
func (h *Handler) ChangeLanguage(locale, prefix string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		lang := r.FormValue("lang")
		if !i18n.IsSupported(lang) {
			lang = locale
		}

		target := postedPath(r)
		if lang != i18n.Default {
			target = "/" + lang + target
		}
		http.Redirect(w, r, target, http.StatusSeeOther)
	}
}

// redirectBack sends the visitor to the page the form came from, falling back
// to the localized home page.
func redirectBack(w http.ResponseWriter, r *http.Request, prefix string) {
	http.Redirect(w, r, prefix+postedPath(r), http.StatusSeeOther)
}

// postedPath reads the "path" form field carried by every storefront form.
// Anything that is not a local absolute path degrades to "/".
func postedPath(r *http.Request) string {
	p := r.FormValue("path")
	if p == "" || !strings.HasPrefix(p, "/") || strings.HasPrefix(p, "//") {
		return "/"
	}
	return p
}
