// Package route holds path canonicalization shared by HTTP services.
package route

import (
	"net/http"
	"strings"
)

// Canonical returns path without trailing slashes; the root stays "/".
func Canonical(path string) string {
	canonical := strings.TrimRight(path, "/")
	if canonical == "" {
		return "/"
	}
	return canonical
}

// TrailingSlash redirects GET and HEAD requests for "/x/" to "/x", keeping
// the query. Other methods pass through untouched so form bodies are not
// dropped by a redirect.
func TrailingSlash(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			next.ServeHTTP(w, r)
			return
		}
		canonical := Canonical(r.URL.Path)
		if canonical == r.URL.Path {
			next.ServeHTTP(w, r)
			return
		}
		target := canonical
		if r.URL.RawQuery != "" {
			target += "?" + r.URL.RawQuery
		}
		http.Redirect(w, r, target, http.StatusMovedPermanently)
	})
}
