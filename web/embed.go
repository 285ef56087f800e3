// Package web embeds the HTML templates and static assets served by
// internal/web.
package web

import "embed"

// TemplatesFS holds layouts, pages and HTMX partials.
//
//go:embed all:templates
var TemplatesFS embed.FS

// StaticFS holds the stylesheet.
//
//go:embed all:static
var StaticFS embed.FS
