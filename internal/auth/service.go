package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bookshelf/internal/platform/crypto"
	"bookshelf/internal/user"

	"go.uber.org/zap"
)

var (
	ErrUnauthorized = errors.New("unauthorized")
)

type Service struct {
	secret      string
	ttl         time.Duration
	userService *user.Service
	blacklist   Blacklist
}

func NewService(secret string, ttl time.Duration, userService *user.Service, blacklist Blacklist) *Service {
	return &Service{
		secret:      secret,
		ttl:         ttl,
		userService: userService,
		blacklist:   blacklist,
	}
}

// Register creates the account and signs a token for it.
func (s *Service) Register(ctx context.Context, name, email, password string) (user.User, string, error) {
	hash, err := crypto.HashPassword(password)
	if err != nil {
		return user.User{}, "", fmt.Errorf("hash password: %w", err)
	}

	u, err := s.userService.Register(ctx, name, email, hash)
	if err != nil {
		return user.User{}, "", err
	}

	token, _, err := crypto.GenerateToken(s.secret, u.ID, s.ttl)
	if err != nil {
		return user.User{}, "", err
	}
	return u, token, nil
}

func (s *Service) Login(ctx context.Context, email, password string) (string, error) {
	u, err := s.userService.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return "", ErrUnauthorized
		}
		return "", err
	}
	if !crypto.VerifyPassword(u.PasswordHash, password) {
		return "", ErrUnauthorized
	}

	token, _, err := crypto.GenerateToken(s.secret, u.ID, s.ttl)
	return token, err
}

// Authenticate resolves a bearer token to its user. Every rejection is
// ErrUnauthorized; storage failures are returned as they are.
func (s *Service) Authenticate(ctx context.Context, token string) (user.User, *crypto.Claims, error) {
	claims, err := crypto.ParseToken(s.secret, token)
	if err != nil {
		return user.User{}, nil, ErrUnauthorized
	}
	userID, err := claims.UserID()
	if err != nil {
		return user.User{}, nil, ErrUnauthorized
	}

	if claims.ID != "" {
		revoked, err := s.blacklist.IsBlacklisted(ctx, claims.ID)
		if err != nil {
			return user.User{}, nil, fmt.Errorf("check blacklist: %w", err)
		}
		if revoked {
			return user.User{}, nil, ErrUnauthorized
		}
	}

	u, err := s.userService.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return user.User{}, nil, ErrUnauthorized
		}
		return user.User{}, nil, err
	}
	return u, claims, nil
}

// Logout revokes the token until it would have expired anyway.
func (s *Service) Logout(ctx context.Context, userID int64, claims *crypto.Claims) error {
	if claims == nil || claims.ID == "" {
		return ErrUnauthorized
	}

	expiresAt := time.Now().Add(s.ttl)
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}
	return s.blacklist.AddToken(ctx, claims.ID, userID, expiresAt)
}

// PurgeBlacklist removes expired entries every interval until ctx is done.
func (s *Service) PurgeBlacklist(ctx context.Context, interval time.Duration, logger *zap.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := s.blacklist.CleanupExpired(ctx)
			if err != nil {
				logger.Warn("blacklist cleanup failed", zap.Error(err))
				continue
			}
			if n > 0 {
				logger.Debug("blacklist cleanup", zap.Int64("removed", n))
			}
		}
	}
}
