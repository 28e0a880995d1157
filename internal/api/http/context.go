package http

import (
	"context"

	"docs-approval-backend/internal/domain"
)

type contextKey int

const principalKey contextKey = iota

func withPrincipal(ctx context.Context, p *domain.Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

// PrincipalFromContext returns the authenticated caller, or nil for anonymous requests.
func PrincipalFromContext(ctx context.Context) *domain.Principal {
	p, _ := ctx.Value(principalKey).(*domain.Principal)
	return p
}
