package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/edvin/onboarding/internal/api/response"
)

// APIKey rejects requests that do not carry key in the X-API-Key header or
// as an Authorization bearer token. An empty key disables the check.
func APIKey(key string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if key == "" {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			presented := r.Header.Get("X-API-Key")
			if presented == "" {
				if token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer "); ok {
					presented = strings.TrimSpace(token)
				}
			}
			if presented == "" {
				response.WriteError(w, http.StatusUnauthorized, "missing API key")
				return
			}
			if subtle.ConstantTimeCompare([]byte(presented), []byte(key)) != 1 {
				response.WriteError(w, http.StatusUnauthorized, "invalid API key")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
