package auth

import (
	"context"

	"github.com/ChasLui/dokploy/internal/db/models"
)

type userContextKey struct{}

// SetUserContext returns a context carrying the authenticated user.
// Callers must only attach a user after validation has fully succeeded;
// there is no partially authenticated state.
func SetUserContext(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, userContextKey{}, user)
}

// GetUserFromContext extracts the authenticated user from the context.
// Returns nil when the request is unauthenticated.
func GetUserFromContext(ctx context.Context) *models.User {
	user, ok := ctx.Value(userContextKey{}).(*models.User)
	if !ok {
		return nil
	}
	return user
}
