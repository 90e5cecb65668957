// Copyright 2026 Sesame Labs
// Licensed under the EUPL-1.2

// Package auth carries the authenticated principal through request contexts.
package auth

import (
	"context"

	"github.com/sesamelabs/sesame/internal/identity"
)

type contextKey struct{}

// SetPrincipal returns a context carrying the principal.
func SetPrincipal(ctx context.Context, p *identity.Principal) context.Context {
	return context.WithValue(ctx, contextKey{}, p)
}

// GetPrincipal returns the principal from the context, or nil.
func GetPrincipal(ctx context.Context) *identity.Principal {
	p, _ := ctx.Value(contextKey{}).(*identity.Principal)
	return p
}

// IsAuthenticated reports whether the context carries a principal.
func IsAuthenticated(ctx context.Context) bool {
	return GetPrincipal(ctx) != nil
}
