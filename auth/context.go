package auth

import (
	"context"
)

// contextKey is a custom type for context keys. Using an unexported type
// prevents collisions with context keys defined in other packages.
type contextKey string

const (
	// identityContextKey is the key under which the resolved caller identity
	// is stored in the request context.
	identityContextKey contextKey = "auth_identity"
)

// NewContextWithIdentity returns a child context carrying the resolved
// identity. Identity travels through the context as an explicit typed value,
// never as a mutation of the request itself.
func NewContextWithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, identityContextKey, id)
}

// IdentityFromContext extracts the caller identity from the context. The
// second return value reports whether an identity was attached; handlers on
// optionally-authenticated routes must treat false as an anonymous caller.
func IdentityFromContext(ctx context.Context) (*Identity, bool) {
	id, ok := ctx.Value(identityContextKey).(*Identity)
	if !ok || id == nil {
		return nil, false
	}
	return id, true
}
