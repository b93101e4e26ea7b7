package auth

import "context"

type ownerKey struct{}

// WithOwner returns a context carrying the authenticated owner id.
func WithOwner(ctx context.Context, ownerID string) context.Context {
	return context.WithValue(ctx, ownerKey{}, ownerID)
}

// OwnerFromContext reports the owner id the request is scoped to, if
// any. Absence means no owner scope: reads are empty, mutations no-op.
func OwnerFromContext(ctx context.Context) (string, bool) {
	ownerID, ok := ctx.Value(ownerKey{}).(string)
	if !ok || ownerID == "" {
		return "", false
	}
	return ownerID, true
}
