package auth

import "context"

type contextKey string

const userContextKey contextKey = "auth.user"

// UserContext carries the authenticated user through a request's context.
type UserContext struct {
	UserID string
}

// WithUser attaches the authenticated user to the context.
func WithUser(ctx context.Context, user UserContext) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// GetUserFromContext returns the authenticated user, if any.
func GetUserFromContext(ctx context.Context) (UserContext, bool) {
	user, ok := ctx.Value(userContextKey).(UserContext)
	return user, ok
}
