package auth

//go:generate mockgen -destination=mock_blacklist.go -package=auth . Blacklist

import (
	"context"
	"time"
)

// Blacklist stores token ids revoked by logout until they expire.
type Blacklist interface {
	AddToken(ctx context.Context, jti string, userID int64, expiresAt time.Time) error
	IsBlacklisted(ctx context.Context, jti string) (bool, error)
	CleanupExpired(ctx context.Context) (int64, error)
}
