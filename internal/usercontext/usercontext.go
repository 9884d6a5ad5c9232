package usercontext

import "context"

type contextKey struct{}

// User is the authenticated caller attached to a request context.
type User struct {
	ID    string
	Name  string
	Email string
}

// With returns a context carrying the authenticated user.
func With(ctx context.Context, u User) context.Context {
	return context.WithValue(ctx, contextKey{}, u)
}

// From extracts the authenticated user, if any.
func From(ctx context.Context) (User, bool) {
	u, ok := ctx.Value(contextKey{}).(User)
	return u, ok
}
