// Package web embeds the storefront's templates and translation resources.
package web

import "embed"

// Templates holds the server-rendered page templates.
//
//go:embed templates/*.gohtml
var Templates embed.FS

// Locales holds the per-locale message files.
//
//go:embed locales/*.json
var Locales embed.FS
