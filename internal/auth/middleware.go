package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/gokatarajesh/livequiz/internal/auth/jwt"
	httperrors "github.com/gokatarajesh/livequiz/pkg/http/errors"
)

type contextKey struct{}

// TokenValidator is satisfied by *jwt.Manager.
type TokenValidator interface {
	Validate(token string) (*jwt.Claims, error)
}

// WithClaims stores claims on ctx.
func WithClaims(ctx context.Context, claims *jwt.Claims) context.Context {
	return context.WithValue(ctx, contextKey{}, claims)
}

// ClaimsFromContext returns the authenticated claims, if any.
func ClaimsFromContext(ctx context.Context) (*jwt.Claims, bool) {
	claims, ok := ctx.Value(contextKey{}).(*jwt.Claims)
	return claims, ok && claims != nil
}

// AuthMiddleware validates JWT tokens and injects claims into the request context.
// Browsers cannot set headers on WebSocket upgrades, so a token query parameter is accepted too.
func AuthMiddleware(validator TokenValidator, logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := r.URL.Query().Get("token")
			if authHeader := r.Header.Get("Authorization"); authHeader != "" {
				parts := strings.Split(authHeader, " ")
				if len(parts) != 2 || parts[0] != "Bearer" {
					httperrors.RespondUnauthorized(w, httperrors.ErrCodeInvalidToken, "Invalid authorization header")
					return
				}
				token = parts[1]
			}
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := validator.Validate(token)
			if err != nil {
				logger.Warn().Err(err).Msg("token validation failed")
				if errors.Is(err, jwt.ErrExpiredToken) {
					httperrors.RespondUnauthorized(w, httperrors.ErrCodeTokenExpired, "Token expired")
					return
				}
				httperrors.RespondUnauthorized(w, httperrors.ErrCodeInvalidToken, "Invalid or expired token")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
		})
	}
}

// RequireAuth ensures the request is authenticated.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := ClaimsFromContext(r.Context()); !ok {
			httperrors.RespondUnauthorized(w, httperrors.ErrCodeAuthenticationRequired, "Authentication required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin ensures the caller may drive quiz transitions.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := ClaimsFromContext(r.Context())
		if !ok {
			httperrors.RespondUnauthorized(w, httperrors.ErrCodeAuthenticationRequired, "Authentication required")
			return
		}
		if !claims.IsAdmin() {
			httperrors.RespondForbidden(w, httperrors.ErrCodeForbidden, "Admin role required")
			return
		}
		next.ServeHTTP(w, r)
	})
}
