package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/dkrylov/camshop/pkg/auth"
	"github.com/dkrylov/camshop/pkg/response"
)

type claimsKey struct{}

// ClaimsFromCtx returns the validated JWT claims stored by RequireAuth.
func ClaimsFromCtx(ctx context.Context) (*auth.Claims, bool) {
	c, ok := ctx.Value(claimsKey{}).(*auth.Claims)
	return c, ok
}

// RequireAuth rejects requests without a valid Bearer token and stores the
// claims in the request context for downstream handlers.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		if token == "" || token == r.Header.Get("Authorization") {
			response.Unauthorized(w)
			return
		}

		claims, err := auth.ValidateToken(token)
		if err != nil {
			response.Unauthorized(w)
			return
		}

		ctx := context.WithValue(r.Context(), claimsKey{}, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireRole gates a route to users with the given role.
// Must be mounted after RequireAuth.
func RequireRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := ClaimsFromCtx(r.Context())
			if !ok {
				response.Unauthorized(w)
				return
			}
			if claims.Role != role {
				response.Forbidden(w)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
