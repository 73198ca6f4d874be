// Package i18n renders localized messages for error codes.
package i18n

import (
	"strings"
	"sync"
	"text/template"

	i18ncatalog "github.com/louisbranch/gradpack/internal/platform/i18n/catalog"
)

// Code mirrors errors.Code; the errors package imports this one.
type Code = string

const namespace = "errors"

// Catalog holds the parsed message templates of one locale.
type Catalog struct {
	locale    string
	templates map[Code]*template.Template
	raw       map[Code]string
}

// cache maps requested locales to catalogs.
var cache sync.Map

// GetCatalog returns the catalog for locale, falling back to the base locale
// when it has no error messages.
func GetCatalog(locale string) *Catalog {
	requested := strings.TrimSpace(locale)
	if requested == "" {
		requested = i18ncatalog.BaseLocale
	}
	if cat, ok := cache.Load(requested); ok {
		return cat.(*Catalog)
	}
	resolved, messages := i18ncatalog.Default().NamespaceMessagesWithFallback(requested, namespace)
	if cat, ok := cache.Load(resolved); ok {
		cache.Store(requested, cat)
		return cat.(*Catalog)
	}
	cat, _ := cache.LoadOrStore(resolved, NewCatalog(resolved, messages))
	cache.Store(requested, cat)
	return cat.(*Catalog)
}

// NewCatalog parses messages for locale. A message that is not a valid
// template is kept and printed verbatim.
func NewCatalog(locale string, messages map[Code]string) *Catalog {
	cat := &Catalog{
		locale:    locale,
		templates: make(map[Code]*template.Template, len(messages)),
		raw:       make(map[Code]string, len(messages)),
	}
	for code, text := range messages {
		cat.raw[code] = text
		if tmpl, err := template.New(code).Parse(text); err == nil {
			cat.templates[code] = tmpl
		}
	}
	return cat
}

// Locale returns the resolved locale.
func (c *Catalog) Locale() string {
	return c.locale
}

// Format renders the message of code with metadata. Unknown codes render as
// the code itself.
func (c *Catalog) Format(code Code, metadata map[string]string) string {
	text, ok := c.raw[code]
	if !ok {
		return code
	}
	tmpl, ok := c.templates[code]
	if !ok {
		return text
	}
	if metadata == nil {
		metadata = map[string]string{}
	}
	var b strings.Builder
	if err := tmpl.Execute(&b, metadata); err != nil {
		return text
	}
	return b.String()
}
