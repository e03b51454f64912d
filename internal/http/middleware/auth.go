package middleware

import (
	"context"
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/ojusave/murder-mystery-sub000/internal/auth"
	"github.com/ojusave/murder-mystery-sub000/internal/http/response"
)

type contextKey string

const adminClaimsKey contextKey = "admin_claims"

// RequireAdmin guards the dashboard API with a JWT bearer token.
func RequireAdmin(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				response.Unauthorized(w, "Admin session required")
				return
			}

			claims, err := auth.Parse(token, secret)
			if err != nil {
				response.Unauthorized(w, "Invalid or expired session")
				return
			}

			ctx := context.WithValue(r.Context(), adminClaimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// AdminClaims returns the verified claims set by RequireAdmin, if any.
func AdminClaims(r *http.Request) *auth.Claims {
	claims, _ := r.Context().Value(adminClaimsKey).(*auth.Claims)
	return claims
}

// RequireReminderSecret guards the reminder trigger endpoint with a shared
// bearer secret, compared in constant time.
func RequireReminderSecret(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if secret == "" {
				response.Unauthorized(w, "Reminder trigger is not configured")
				return
			}

			token := bearerToken(r)
			if subtle.ConstantTimeCompare([]byte(token), []byte(secret)) != 1 {
				response.Unauthorized(w, "Invalid reminder secret")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
