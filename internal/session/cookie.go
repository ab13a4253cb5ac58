package session

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"time"

	"github.com/merkatoshop/storefront/internal/domain/cart"
)

// Cookie names. "cart" and "currency" mirror the storage keys the state was
// historically kept under; "cart_open" carries the drawer flag so the toggle
// survives the redirect that follows it.
const (
	cartCookie     = "cart"
	currencyCookie = "currency"
	cartOpenCookie = "cart_open"
)

// cookieTTL keeps the state around between visits. The state has no expiry
// semantics of its own.
const cookieTTL = 180 * 24 * time.Hour

// LoadFromRequest restores a State from the request's cookies. Restoration is
// best-effort: a missing cookie, undecodable payload, or corrupt JSON is
// treated as absence of prior state, never as an error.
func LoadFromRequest(r *http.Request) State {
	var st State

	if c, err := r.Cookie(cartCookie); err == nil {
		if raw, err := base64.RawURLEncoding.DecodeString(c.Value); err == nil {
			var items []cart.Item
			if err := json.Unmarshal(raw, &items); err == nil {
				st.Cart = cart.Cart{Items: items}
			}
		}
	}

	if c, err := r.Cookie(currencyCookie); err == nil {
		st.Currency = c.Value
	}

	if c, err := r.Cookie(cartOpenCookie); err == nil {
		st.ShowCart = c.Value == "1"
	}

	return st
}

// PersistToResponse returns a write-through hook that serializes the state
// into response cookies. Encoding failures are swallowed; the next request
// simply restores the previous state. Concurrent writers (two tabs) are not
// reconciled: last write wins.
func PersistToResponse(w http.ResponseWriter) PersistFunc {
	return func(st State) {
		if raw, err := json.Marshal(st.Cart.Items); err == nil {
			setCookie(w, cartCookie, base64.RawURLEncoding.EncodeToString(raw))
		}
		setCookie(w, currencyCookie, st.Currency)

		open := "0"
		if st.ShowCart {
			open = "1"
		}
		setCookie(w, cartOpenCookie, open)
	}
}

func setCookie(w http.ResponseWriter, name, value string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   int(cookieTTL / time.Second),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
