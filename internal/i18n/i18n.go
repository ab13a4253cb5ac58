// Package i18n loads the storefront's translated strings and resolves the
// active locale. The locale set is fixed: English (default) and Amharic,
// addressed by the path prefix. Language selection only changes displayed
// strings, never data shapes.
package i18n

import (
	"encoding/json"
	"io/fs"
	"path"

	"github.com/go-faster/errors"
	goi18n "github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

// Default is the fallback locale.
const Default = "en"

// locales lists the supported locale codes in display order.
var locales = []string{"en", "am"}

// Supported returns the supported locale codes.
func Supported() []string {
	return locales
}

// IsSupported reports whether code is a supported locale.
func IsSupported(code string) bool {
	for _, l := range locales {
		if l == code {
			return true
		}
	}
	return false
}

// Match returns code if supported, otherwise the default locale.
func Match(code string) string {
	if IsSupported(code) {
		return code
	}
	return Default
}

// Translator resolves message IDs against the loaded locale bundles.
type Translator struct {
	bundle *goi18n.Bundle
}

// New loads every *.json message file from dir within fsys. File names are
// locale codes ("en.json", "am.json").
func New(fsys fs.FS, dir string) (*Translator, error) {
	bundle := goi18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("json", json.Unmarshal)

	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, errors.Wrap(err, "read locales dir")
	}
	for _, e := range entries {
		name := path.Join(dir, e.Name())
		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, errors.Wrapf(err, "read %s", name)
		}
		if _, err := bundle.ParseMessageFileBytes(data, e.Name()); err != nil {
			return nil, errors.Wrapf(err, "parse %s", name)
		}
	}

	return &Translator{bundle: bundle}, nil
}

// Func returns a lookup function for the given locale. Missing messages fall
// back to the default locale, then to the message ID itself so a gap in the
// resource files never breaks a page.
func (t *Translator) Func(locale string) func(string) string {
	localizer := goi18n.NewLocalizer(t.bundle, locale, Default)
	return func(id string) string {
		msg, err := localizer.Localize(&goi18n.LocalizeConfig{MessageID: id})
		if err != nil {
			return id
		}
		return msg
	}
}
