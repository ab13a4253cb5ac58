// Package handler renders the storefront pages and applies cart, currency,
// and language actions. All catalog reads go through the degrading catalog
// service; all visitor state goes through the cookie-backed session.
package handler

import (
	"bytes"
	"html/template"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/merkatoshop/storefront/internal/catalog"
	"github.com/merkatoshop/storefront/internal/currency"
	"github.com/merkatoshop/storefront/internal/i18n"
	"github.com/merkatoshop/storefront/internal/session"
	"github.com/merkatoshop/storefront/web"
)

// pageNames lists the page templates; each is parsed together with the layout
// and shared partials into its own template set.
var pageNames = []string{"home", "products", "category", "product", "search", "cart", "notfound"}

// Handler serves all storefront routes.
type Handler struct {
	catalog    *catalog.Service
	translator *i18n.Translator
	validate   *validator.Validate
	templates  map[string]*template.Template
}

// New creates a Handler with parsed templates.
func New(catalogSvc *catalog.Service, translator *i18n.Translator) (*Handler, error) {
	templates := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		t, err := template.ParseFS(web.Templates,
			"templates/layout.gohtml",
			"templates/card.gohtml",
			"templates/"+name+".gohtml",
		)
		if err != nil {
			return nil, errors.Wrapf(err, "parse %s templates", name)
		}
		templates[name] = t
	}

	return &Handler{
		catalog:    catalogSvc,
		translator: translator,
		validate:   validator.New(validator.WithRequiredStructEnabled()),
		templates:  templates,
	}, nil
}

// Base carries the fields every page template needs: locale, translation
// lookup, currency options, and the cart summary for the header.
type Base struct {
	Title           string
	Lang            string
	Prefix          string
	Path            string
	T               func(string) string
	Currency        string
	CurrencyOptions []currency.Info
	Languages       []languageOption
	CartCount       int
	CartTotal       string
	ShowCart        bool
	CartItems       []lineView
}

type languageOption struct {
	Code     string
	Name     string
	Selected bool
}

var languageNames = map[string]string{
	"en": "English",
	"am": "አማርኛ",
}

// productView is a display-ready product: price converted to the active
// currency and formatted, URL localized.
type productView struct {
	ID          int
	Title       string
	Category    string
	Image       string
	Price       string
	RatingRate  float64
	RatingCount int
	URL         string
}

// lineView is a display-ready cart line.
type lineView struct {
	ID       int
	Title    string
	Image    string
	URL      string
	Price    string
	Quantity int
	Subtotal string
}

type categoryLink struct {
	Name string
	URL  string
}

// base assembles the shared template data for one request.
func (h *Handler) base(r *http.Request, sess *session.Session, locale, prefix, title string) Base {
	t := h.translator.Func(locale)
	cur := sess.Currency()

	languages := make([]languageOption, 0, len(i18n.Supported()))
	for _, code := range i18n.Supported() {
		languages = append(languages, languageOption{
			Code:     code,
			Name:     languageNames[code],
			Selected: code == locale,
		})
	}

	return Base{
		Title:           title,
		Lang:            locale,
		Prefix:          prefix,
		Path:            localPath(r, prefix),
		T:               t,
		Currency:        cur,
		CurrencyOptions: currency.Options(),
		Languages:       languages,
		CartCount:       sess.TotalQuantity(),
		CartTotal:       currency.Format(currency.Convert(sess.TotalPrice(), cur), cur),
		ShowCart:        sess.ShowCart(),
		CartItems:       h.lineViews(sess, prefix),
	}
}

func (h *Handler) productViews(products []catalog.Product, cur, prefix string) []productView {
	out := make([]productView, 0, len(products))
	for _, p := range products {
		out = append(out, h.productView(p, cur, prefix))
	}
	return out
}

func (h *Handler) productView(p catalog.Product, cur, prefix string) productView {
	return productView{
		ID:          p.ID,
		Title:       p.Title,
		Category:    p.Category,
		Image:       p.Image,
		Price:       currency.Format(currency.Convert(p.Price, cur), cur),
		RatingRate:  p.Rating.Rate,
		RatingCount: p.Rating.Count,
		URL:         productURL(prefix, p.ID),
	}
}

func (h *Handler) lineViews(sess *session.Session, prefix string) []lineView {
	cur := sess.Currency()
	items := sess.Items()
	out := make([]lineView, 0, len(items))
	for _, item := range items {
		subtotal := item.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))
		out = append(out, lineView{
			ID:       item.ID,
			Title:    item.Title,
			Image:    item.Image,
			URL:      productURL(prefix, item.ID),
			Price:    currency.Format(currency.Convert(item.Price, cur), cur),
			Quantity: item.Quantity,
			Subtotal: currency.Format(currency.Convert(subtotal, cur), cur),
		})
	}
	return out
}

// render executes the named page template into a buffer first so a template
// error yields a clean 500 instead of a half-written page.
func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, page string, data any) {
	t, ok := h.templates[page]
	if !ok {
		zctx.From(r.Context()).Error("Unknown page template", zap.String("page", page))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		zctx.From(r.Context()).Error("Render failed", zap.String("page", page), zap.Error(err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// notFound renders the localized not-found page with a 404 status.
func (h *Handler) notFound(w http.ResponseWriter, r *http.Request, sess *session.Session, locale, prefix string) {
	t := h.translator.Func(locale)
	data := struct{ Base }{h.base(r, sess, locale, prefix, t("notFoundTitle")+" | "+t("siteTitle"))}
	h.render(w, r, http.StatusNotFound, "notfound", data)
}

// loadSession restores the visitor state from cookies and binds the
// write-through persister to the response.
func loadSession(w http.ResponseWriter, r *http.Request) *session.Session {
	return session.New(session.LoadFromRequest(r), session.PersistToResponse(w))
}

// localPath strips the locale prefix from the request path so language and
// currency switches can return to the same logical page.
func localPath(r *http.Request, prefix string) string {
	p := r.URL.Path
	if prefix != "" {
		p = strings.TrimPrefix(p, prefix)
	}
	if p == "" {
		p = "/"
	}
	return p
}

func productURL(prefix string, id int) string {
	return prefix + "/products/" + strconv.Itoa(id)
}

func categoryURL(prefix, category string) string {
	return prefix + "/categories/" + url.PathEscape(category)
}
