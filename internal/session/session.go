// Package session holds the per-visitor storefront state: the cart, the
// selected currency, and the cart drawer's visibility. State transitions are
// pure cart/field updates; persistence happens through a write-through hook
// invoked after every mutation, so the transition logic stays independently
// testable.
package session

import (
	"github.com/shopspring/decimal"

	"github.com/merkatoshop/storefront/internal/currency"
	"github.com/merkatoshop/storefront/internal/domain/cart"
)

// State is the persisted portion of a visitor's session.
type State struct {
	Cart     cart.Cart
	Currency string
	ShowCart bool
}

// PersistFunc is the write-through hook called after every mutation with the
// full new state. Implementations must not fail the mutation; persistence is
// best-effort.
type PersistFunc func(State)

// Session wraps a State with mutation operations. It is bound to a single
// request: construct it from the restored state, mutate, and let the persist
// hook write the result back.
type Session struct {
	state   State
	persist PersistFunc
}

// New creates a Session from a restored state. An unrecognized currency code
// (or none at all) falls back to the base currency. A nil persist hook makes
// the session in-memory only.
func New(state State, persist PersistFunc) *Session {
	if !currency.Known(state.Currency) {
		state.Currency = currency.Base
	}
	if persist == nil {
		persist = func(State) {}
	}
	return &Session{state: state, persist: persist}
}

// AddToCart merges a line into the cart. Quantity >= 1 is the caller's
// responsibility.
func (s *Session) AddToCart(item cart.Item) {
	s.state.Cart.Add(item)
	s.persist(s.state)
}

// UpdateQuantity replaces a line's quantity. Quantities below 1 and unknown
// IDs are ignored.
func (s *Session) UpdateQuantity(id, quantity int) {
	s.state.Cart.UpdateQuantity(id, quantity)
	s.persist(s.state)
}

// RemoveFromCart removes a line, if present.
func (s *Session) RemoveFromCart(id int) {
	s.state.Cart.Remove(id)
	s.persist(s.state)
}

// ClearCart empties the cart.
func (s *Session) ClearCart() {
	s.state.Cart.Clear()
	s.persist(s.state)
}

// ChangeCurrency switches the active currency. Unknown codes are ignored.
func (s *Session) ChangeCurrency(code string) {
	if !currency.Known(code) {
		return
	}
	s.state.Currency = code
	s.persist(s.state)
}

// ToggleCartVisibility flips the cart drawer flag.
func (s *Session) ToggleCartVisibility() {
	s.state.ShowCart = !s.state.ShowCart
	s.persist(s.state)
}

// Items returns the current cart lines.
func (s *Session) Items() []cart.Item {
	return s.state.Cart.Items
}

// TotalQuantity is the sum of all line quantities.
func (s *Session) TotalQuantity() int {
	return s.state.Cart.TotalQuantity()
}

// TotalPrice is the cart total in the base currency.
func (s *Session) TotalPrice() decimal.Decimal {
	return s.state.Cart.TotalPrice()
}

// Currency returns the active currency code.
func (s *Session) Currency() string {
	return s.state.Currency
}

// ShowCart reports whether the cart drawer is open.
func (s *Session) ShowCart() bool {
	return s.state.ShowCart
}
