// AngelaMos | 2026
// context.go

package middleware

import (
	"context"
)

type contextKey string

const (
	RequestIDKey contextKey = "request_id"
	PrincipalKey contextKey = "principal"
	TenantIDKey  contextKey = "tenant_id"
)

// Principal is the authenticated identity attached to the request
// context. TenantID and Role are empty for sessions that have not
// switched into a workspace.
type Principal struct {
	UserID     string
	Email      string
	TenantID   string
	Role       string
	TokenID    string
	IsVerified bool
	IsActive   bool
}

func GetRequestID(ctx context.Context) string {
	if id, ok := ctx.Value(RequestIDKey).(string); ok {
		return id
	}
	return ""
}

func GetPrincipal(ctx context.Context) *Principal {
	if p, ok := ctx.Value(PrincipalKey).(*Principal); ok {
		return p
	}
	return nil
}

func GetUserID(ctx context.Context) string {
	if p := GetPrincipal(ctx); p != nil {
		return p.UserID
	}
	return ""
}

// GetTenantID returns the tenant the request is scoped to, set by
// TenantResolver.
func GetTenantID(ctx context.Context) string {
	if id, ok := ctx.Value(TenantIDKey).(string); ok {
		return id
	}
	return ""
}

func IsAuthenticated(ctx context.Context) bool {
	return GetUserID(ctx) != ""
}
