package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"alphachest/internal/transport/http/response"
	"alphachest/pkg/apierror"
)

// APIKeyAuth rejects requests that don't carry one of validKeys in the
// X-API-Key header or as a Bearer token. Health checks are always allowed.
// With no keys configured every request is allowed.
func APIKeyAuth(validKeys []string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if len(validKeys) == 0 {
				next.ServeHTTP(w, r)
				return
			}

			// Skip auth for health check
			if r.URL.Path == "/api/v1/health" || r.URL.Path == "/api/v1/ready" {
				next.ServeHTTP(w, r)
				return
			}

			apiKey := r.Header.Get("X-API-Key")
			if apiKey == "" {
				// Also check Authorization header (Bearer token style)
				auth := r.Header.Get("Authorization")
				if strings.HasPrefix(auth, "Bearer ") {
					apiKey = strings.TrimPrefix(auth, "Bearer ")
				}
			}

			if apiKey == "" {
				response.Error(w, apierror.Unauthorized("Authentication required. Use X-API-Key header."))
				return
			}
			if !isValidKey(apiKey, validKeys) {
				response.Error(w, apierror.Unauthorized("Invalid API key"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// isValidKey checks if the provided key is in the valid keys list.
func isValidKey(key string, validKeys []string) bool {
	for _, valid := range validKeys {
		if subtle.ConstantTimeCompare([]byte(key), []byte(strings.TrimSpace(valid))) == 1 {
			return true
		}
	}
	return false
}
