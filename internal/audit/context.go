package audit

import "context"

type userKey struct{}

// WithUser returns a context carrying the user recorded in audit entries.
func WithUser(ctx context.Context, user string) context.Context {
	return context.WithValue(ctx, userKey{}, user)
}

// UserFromContext returns the user stored by WithUser, or "unknown".
func UserFromContext(ctx context.Context) string {
	if user, ok := ctx.Value(userKey{}).(string); ok && user != "" {
		return user
	}
	return "unknown"
}
