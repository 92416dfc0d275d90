package middleware

import (
	"net/http"

	"github.com/Teesha-Gokulgandhi/OrbitHR/internal/domain/user"
	"github.com/Teesha-Gokulgandhi/OrbitHR/internal/handler/http/response"
)

// RequirePermission rejects callers whose role lacks permission before the
// handler runs.
func RequirePermission(permission user.Permission) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := PrincipalFromContext(r.Context()).Require(permission); err != nil {
				response.HandleError(w, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
