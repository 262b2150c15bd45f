package auth

import "context"

// Identity is the authenticated caller as asserted by the identity provider.
type Identity struct {
	UserID string `json:"user_id"`
	Email  string `json:"email,omitempty"`
}

// IsZero reports whether the identity is missing.
func (i Identity) IsZero() bool {
	return i.UserID == ""
}

// Directory verifies credentials issued by the external account directory.
type Directory interface {
	Verify(ctx context.Context, token string) (Identity, error)
}

type contextKey string

const identityKey contextKey = "identity"

// WithIdentity returns a copy of ctx carrying the caller identity.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// FromContext returns the caller identity stored by WithIdentity, or the zero
// identity when the request was anonymous.
func FromContext(ctx context.Context) Identity {
	id, _ := ctx.Value(identityKey).(Identity)
	return id
}
