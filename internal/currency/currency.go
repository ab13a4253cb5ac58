// Package currency holds the static exchange-rate table and the pure
// conversion and formatting helpers built on it. Rates are fixed relative to
// the base currency; there is no live rate feed.
package currency

import "github.com/shopspring/decimal"

// Base is the currency product prices are denominated in.
const Base = "USD"

// Info describes one supported currency.
type Info struct {
	Code   string
	Symbol string
	Rate   decimal.Decimal // units per 1 USD
}

// wholeUnit marks the currency that is always rounded to the nearest whole
// unit; every other currency rounds to 2 decimal places.
const wholeUnit = "birr"

var table = map[string]Info{
	"USD":  {Code: "USD", Symbol: "$", Rate: decimal.NewFromInt(1)},
	"EUR":  {Code: "EUR", Symbol: "€", Rate: decimal.RequireFromString("0.93")},
	"GBP":  {Code: "GBP", Symbol: "£", Rate: decimal.RequireFromString("0.81")},
	"birr": {Code: "birr", Symbol: "birr", Rate: decimal.RequireFromString("148.58")},
	"CAD":  {Code: "CAD", Symbol: "C$", Rate: decimal.RequireFromString("1.38")},
	"AUD":  {Code: "AUD", Symbol: "A$", Rate: decimal.RequireFromString("1.56")},
	"CNY":  {Code: "CNY", Symbol: "¥", Rate: decimal.RequireFromString("7.28")},
	"INR":  {Code: "INR", Symbol: "₹", Rate: decimal.RequireFromString("83.43")},
}

// codes fixes the display order of the switcher options.
var codes = []string{"USD", "EUR", "GBP", "birr", "CAD", "AUD", "CNY", "INR"}

// Known reports whether code is a supported currency.
func Known(code string) bool {
	_, ok := table[code]
	return ok
}

// Options returns all supported currencies in display order.
func Options() []Info {
	out := make([]Info, 0, len(codes))
	for _, c := range codes {
		out = append(out, table[c])
	}
	return out
}

// Convert converts an amount in the base currency to the target currency,
// applying the target's rounding rule. An unknown target code returns the
// amount unchanged.
func Convert(amountInBase decimal.Decimal, targetCode string) decimal.Decimal {
	info, ok := table[targetCode]
	if !ok {
		return amountInBase
	}
	return round(amountInBase.Mul(info.Rate), targetCode)
}

// ConvertBetween converts an amount between two currencies by normalizing
// through the base currency. If either code is unknown the amount is
// returned unchanged.
func ConvertBetween(amount decimal.Decimal, fromCode, toCode string) decimal.Decimal {
	from, ok := table[fromCode]
	if !ok {
		return amount
	}
	if !Known(toCode) {
		return amount
	}
	return Convert(amount.Div(from.Rate), toCode)
}

// Format renders an amount already denominated in the given currency with its
// symbol prefixed, applying the currency's rounding rule. Unknown codes fall
// back to the base currency's symbol.
func Format(amount decimal.Decimal, code string) string {
	info, ok := table[code]
	if !ok {
		info = table[Base]
		code = Base
	}
	if code == wholeUnit {
		return info.Symbol + amount.Round(0).StringFixed(0)
	}
	return info.Symbol + amount.StringFixed(2)
}

// ParseAmount parses a decimal amount, returning zero for anything that is
// not a number.
func ParseAmount(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

func round(d decimal.Decimal, code string) decimal.Decimal {
	if code == wholeUnit {
		return d.Round(0)
	}
	return d.Round(2)
}
