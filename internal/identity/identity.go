package identity

import "context"

// Identity is the authenticated caller. OwnerID scopes every record store operation.
type Identity struct {
	OwnerID string `json:"owner_id"`
	Email   string `json:"email,omitempty"`
	Name    string `json:"name,omitempty"`
}

type contextKey string

const identityKey contextKey = "identity"

func WithIdentity(ctx context.Context, identity *Identity) context.Context {
	return context.WithValue(ctx, identityKey, identity)
}

func FromContext(ctx context.Context) (*Identity, bool) {
	identity, ok := ctx.Value(identityKey).(*Identity)
	return identity, ok && identity != nil
}

// OwnerID returns the caller's owner id, or "" when the context is unauthenticated.
func OwnerID(ctx context.Context) string {
	if identity, ok := FromContext(ctx); ok {
		return identity.OwnerID
	}
	return ""
}
