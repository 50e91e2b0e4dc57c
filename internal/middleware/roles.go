package middleware

import (
	"net/http"

	"github.com/baharkarakas/payment-authorizer/internal/api/httpx"
)

// RequireRole allows only callers whose token carries one of roles. Must
// run after Auth.
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	allowed := map[string]struct{}{}
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			op, ok := OperatorFrom(r.Context())
			if !ok {
				httpx.WriteError(w, http.StatusUnauthorized, "unauthorized", "not authenticated", nil)
				return
			}
			if _, ok := allowed[op.Role]; !ok {
				httpx.WriteError(w, http.StatusForbidden, "forbidden", "forbidden", nil)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
