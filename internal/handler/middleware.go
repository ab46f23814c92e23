package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/coverdesk/insurance-backoffice-go/internal/service"

	"go.uber.org/zap"
)

type contextKey string

const staffClaimsKey contextKey = "staffClaims"

// JWTAuthMiddleware validates Bearer tokens and injects the staff claims
// into the request context.
func JWTAuthMiddleware(authSvc *service.AuthService, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				logger.Warn("auth: missing token",
					zap.String("path", r.URL.Path),
					zap.String("remote_addr", r.RemoteAddr),
				)
				writeError(w, http.StatusUnauthorized, "authentication token not provided")
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				logger.Warn("auth: invalid token format",
					zap.String("path", r.URL.Path),
					zap.String("remote_addr", r.RemoteAddr),
				)
				writeError(w, http.StatusUnauthorized, "invalid token format")
				return
			}

			claims, err := authSvc.ValidateAccessToken(parts[1])
			if err != nil {
				logger.Warn("auth: invalid or expired token",
					zap.String("path", r.URL.Path),
					zap.String("remote_addr", r.RemoteAddr),
					zap.Error(err),
				)
				writeError(w, http.StatusUnauthorized, err.Error())
				return
			}

			ctx := context.WithValue(r.Context(), staffClaimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole gates a route on a staff role (e.g. ADMIN for deletes).
// Must run after JWTAuthMiddleware.
func RequireRole(role string, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := StaffFromContext(r.Context())
			if claims == nil || !claims.HasRole(role) {
				username := ""
				if claims != nil {
					username = claims.Username
				}
				logger.Warn("auth: missing role",
					zap.String("path", r.URL.Path),
					zap.String("role", role),
					zap.String("username", username),
				)
				writeError(w, http.StatusForbidden, "insufficient role")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// StaffFromContext extracts the authenticated staff claims from context.
func StaffFromContext(ctx context.Context) *service.JWTClaims {
	v, _ := ctx.Value(staffClaimsKey).(*service.JWTClaims)
	return v
}
