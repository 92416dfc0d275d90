package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/Teesha-Gokulgandhi/OrbitHR/internal/domain/auth"
	"github.com/Teesha-Gokulgandhi/OrbitHR/internal/domain/user"
	"github.com/Teesha-Gokulgandhi/OrbitHR/internal/handler/http/response"
	"github.com/Teesha-Gokulgandhi/OrbitHR/internal/pkg/jwt"
	"github.com/go-chi/jwtauth/v5"
)

type ctxKey int

const claimsKey ctxKey = iota

// AuthRequired must run after jwtauth.Verifier. It rejects missing, invalid and
// revoked tokens and stores the parsed claims in the request context.
func AuthRequired(jwtService jwt.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		hfn := func(w http.ResponseWriter, r *http.Request) {
			token, rawClaims, err := jwtauth.FromContext(r.Context())
			if err != nil || token == nil {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			claims, err := jwtService.ParseClaims(rawClaims)
			if err != nil {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			revoked, err := jwtService.IsTokenRevoked(r.Context(), claims.TokenID)
			if err != nil {
				slog.ErrorContext(r.Context(), "failed to check token revocation", "error", err)
				response.InternalServerError(w, "An unexpected error occurred")
				return
			}
			if revoked {
				response.HandleError(w, auth.ErrTokenRevoked)
				return
			}

			ctx := context.WithValue(r.Context(), claimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		}
		return http.HandlerFunc(hfn)
	}
}

// ClaimsFromContext returns the claims stored by AuthRequired.
func ClaimsFromContext(ctx context.Context) (jwt.Claims, bool) {
	claims, ok := ctx.Value(claimsKey).(jwt.Claims)
	return claims, ok
}

// PrincipalFromContext returns the authenticated caller, or the zero Principal
// on unauthenticated routes.
func PrincipalFromContext(ctx context.Context) user.Principal {
	claims, ok := ClaimsFromContext(ctx)
	if !ok {
		return user.Principal{}
	}
	return claims.Principal()
}
