package auth

import (
	"context"

	"commerce-platform/internal/users"
)

type ctxKey int

const ctxUser ctxKey = iota

// WithUser attaches the resolved, sanitized user to the request context.
func WithUser(ctx context.Context, p users.Profile) context.Context {
	return context.WithValue(ctx, ctxUser, p)
}

// CurrentUser returns the user attached by the access or refresh guard.
func CurrentUser(ctx context.Context) (users.Profile, bool) {
	p, ok := ctx.Value(ctxUser).(users.Profile)
	if !ok || p.ID == "" {
		return users.Profile{}, false
	}
	return p, true
}
