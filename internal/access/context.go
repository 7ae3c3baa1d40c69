// Package access derives the caller's identity from a request and holds the
// role, ownership and KYC rules every mutating operation is checked against.
package access

import (
	"context"

	"github.com/hongminglow/eventus-be/internal/models"
)

type contextKey string

const userKey contextKey = "access.user"

// WithUser returns a context carrying the authenticated user.
func WithUser(ctx context.Context, user models.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// UserFrom returns the authenticated user, if any.
func UserFrom(ctx context.Context) (models.User, bool) {
	user, ok := ctx.Value(userKey).(models.User)
	return user, ok
}

// ActorFrom returns the authenticated user as a pointer, or nil for anonymous callers.
func ActorFrom(ctx context.Context) *models.User {
	user, ok := UserFrom(ctx)
	if !ok {
		return nil
	}
	return &user
}
