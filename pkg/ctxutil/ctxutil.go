// Package ctxutil carries per-request values through context: the request id
// and the authenticated principal (manager session or resolved client).
package ctxutil

import (
	"context"

	"github.com/minicrm/backend/internal/domain"
)

type ctxKey string

const (
	principalKey ctxKey = "principal"
	requestIDKey ctxKey = "request_id"
)

// WithPrincipal stores the authenticated principal in the context.
func WithPrincipal(ctx context.Context, p domain.Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

// PrincipalFromCtx extracts the principal from the context.
// Returns false if no principal was set.
func PrincipalFromCtx(ctx context.Context) (domain.Principal, bool) {
	p, ok := ctx.Value(principalKey).(domain.Principal)
	return p, ok
}

// ManagerFromCtx extracts a manager principal from the context.
// Returns false for anonymous contexts and client principals.
func ManagerFromCtx(ctx context.Context) (domain.Principal, bool) {
	p, ok := PrincipalFromCtx(ctx)
	if !ok || p.Kind != domain.PrincipalManager {
		return domain.Principal{}, false
	}
	return p, true
}

// ClientFromCtx extracts a client principal from the context.
// Returns false for anonymous contexts and manager principals.
func ClientFromCtx(ctx context.Context) (domain.Principal, bool) {
	p, ok := PrincipalFromCtx(ctx)
	if !ok || p.Kind != domain.PrincipalClient {
		return domain.Principal{}, false
	}
	return p, true
}

// WithRequestID stores the request ID in the context.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromCtx extracts the request ID from the context.
// Returns an empty string if absent.
func RequestIDFromCtx(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}
