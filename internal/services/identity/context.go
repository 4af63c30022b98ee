package identity

import "context"

type identityContextKey string

const identityKey identityContextKey = "request_identity"

// Identity is the caller resolved by the upstream gateway. Authentication
// happens before traffic reaches this service.
type Identity struct {
	UserID int64
}

func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

func FromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey).(Identity)
	return id, ok
}
