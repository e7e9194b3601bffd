// AngelaMos | 2026
// tenant.go

package middleware

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// TenantResolver pins the request to a tenant: the workspaceID path
// parameter when present, otherwise the tenant claim carried by the
// session. Requests with neither pass through unscoped; handlers that
// need a tenant enforce membership themselves.
func TenantResolver(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tenantID := chi.URLParam(r, "workspaceID")
		if tenantID == "" {
			if p := GetPrincipal(r.Context()); p != nil {
				tenantID = p.TenantID
			}
		}

		if tenantID != "" {
			ctx := context.WithValue(r.Context(), TenantIDKey, tenantID)
			r = r.WithContext(ctx)
		}

		next.ServeHTTP(w, r)
	})
}
