package handlers

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

// adminCookieName is the cookie the ingest UI sets after unlocking.
const adminCookieName = "admin_secret"

// RequireAdmin guards write and audit endpoints with the shared admin secret,
// accepted as a Bearer token or the admin cookie. Requests failing the check
// are rejected before the pipeline runs, so no audit row is written for them.
func RequireAdmin(secret string, logger *zap.Logger) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			if secret == "" {
				logger.Error("ADMIN_SECRET is not configured; rejecting admin request",
					zap.String("path", r.URL.Path))
				_ = ErrorResponse(w, http.StatusUnauthorized, "unauthorized", "admin access not configured")
				return
			}

			if !presentedSecretMatches(r, secret) {
				_ = ErrorResponse(w, http.StatusUnauthorized, "unauthorized", "admin secret required")
				return
			}

			next(w, r)
		}
	}
}

func presentedSecretMatches(r *http.Request, secret string) bool {
	if auth := r.Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
		token := strings.TrimPrefix(auth, "Bearer ")
		if subtle.ConstantTimeCompare([]byte(token), []byte(secret)) == 1 {
			return true
		}
	}
	if cookie, err := r.Cookie(adminCookieName); err == nil {
		if subtle.ConstantTimeCompare([]byte(cookie.Value), []byte(secret)) == 1 {
			return true
		}
	}
	return false
}
