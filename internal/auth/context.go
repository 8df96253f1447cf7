package auth

import (
	"context"

	"bookshelf/internal/platform/crypto"
	"bookshelf/internal/user"
)

type contextKey string

const (
	userKey   contextKey = "authUser"
	claimsKey contextKey = "authClaims"
)

// ContextWithUser returns a context carrying the authenticated user and the
// claims of the token that resolved it.
func ContextWithUser(ctx context.Context, u user.User, claims *crypto.Claims) context.Context {
	ctx = context.WithValue(ctx, userKey, u)
	return context.WithValue(ctx, claimsKey, claims)
}

// UserFrom returns the user resolved by the Gate.
func UserFrom(ctx context.Context) (user.User, bool) {
	u, ok := ctx.Value(userKey).(user.User)
	return u, ok
}

func ClaimsFrom(ctx context.Context) (*crypto.Claims, bool) {
	c, ok := ctx.Value(claimsKey).(*crypto.Claims)
	return c, ok && c != nil
}
