package middleware

import (
	"net/http"
	"strings"

	"github.com/go-chi/cors"
)

// CORS allows any method and header from the given origins ("*" for all),
// with credentials. The request origin is always echoed back: browsers refuse
// a literal "*" on credentialed responses.
func CORS(allowedOrigins []string) func(http.Handler) http.Handler {
	allow := AllowOrigin(allowedOrigins)
	return cors.Handler(cors.Options{
		AllowOriginFunc: func(r *http.Request, origin string) bool {
			return allow(origin)
		},
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           300,
	})
}

// AllowOrigin reports whether an origin is in allowed, case-insensitively.
// A "*" entry allows every origin.
func AllowOrigin(allowed []string) func(origin string) bool {
	allowAll := false
	set := make(map[string]struct{}, len(allowed))
	for _, o := range allowed {
		o = strings.TrimSpace(o)
		if o == "*" {
			allowAll = true
		}
		set[strings.ToLower(o)] = struct{}{}
	}

	return func(origin string) bool {
		if allowAll {
			return true
		}
		_, ok := set[strings.ToLower(origin)]
		return ok
	}
}
