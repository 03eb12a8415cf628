package middleware

import (
	"net/http"
	"strings"
)

// NoStore marks API responses as uncacheable. Account payloads carry
// passwords and must not end up in shared or browser caches.
// Paths outside /api/ are left alone.
func NoStore(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/api/") {
			w.Header().Set("Cache-Control", "no-store")
			w.Header().Set("Pragma", "no-cache")
		}
		next.ServeHTTP(w, r)
	})
}
