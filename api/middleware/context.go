package middleware

import (
	"context"

	"github.com/vitrinelabs/vitrine-backend/pkg/identity"
)

type contextKey string

const (
	ctxPrincipal contextKey = "principal"
	ctxUserID    contextKey = "user_id"
	ctxRole      contextKey = "actor_role"
	ctxStoreID   contextKey = "store_id"
)

// WithPrincipal injects the verified caller identity into the context.
func WithPrincipal(ctx context.Context, principal *identity.Principal) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	if principal == nil {
		return ctx
	}
	ctx = context.WithValue(ctx, ctxPrincipal, principal)
	ctx = context.WithValue(ctx, ctxUserID, principal.ID.String())
	ctx = context.WithValue(ctx, ctxRole, string(principal.Type))
	if principal.StoreID != nil {
		ctx = context.WithValue(ctx, ctxStoreID, principal.StoreID.String())
	}
	return ctx
}

// PrincipalFromContext returns the verified caller identity, or nil when the
// request was not authenticated.
func PrincipalFromContext(ctx context.Context) *identity.Principal {
	if ctx == nil {
		return nil
	}
	if v, ok := ctx.Value(ctxPrincipal).(*identity.Principal); ok {
		return v
	}
	return nil
}

func UserIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxUserID).(string); ok {
		return v
	}
	return ""
}

func RoleFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxRole).(string); ok {
		return v
	}
	return ""
}

func StoreIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxStoreID).(string); ok {
		return v
	}
	return ""
}
