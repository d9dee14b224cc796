package ports

import (
	"context"
	"time"

	"bookshelf/contexts/identity-access/auth-service/domain/entities"
)

// UserDirectory returns domainerrors.ErrUserNotFound for unknown users.
type UserDirectory interface {
	FindUser(ctx context.Context, username string) (entities.User, error)
}

// PasswordVerifier returns domainerrors.ErrInvalidCredentials on mismatch.
type PasswordVerifier interface {
	Compare(hash string, password string) error
}

// TokenManager signs and verifies access tokens. Parse returns
// domainerrors.ErrTokenExpired or domainerrors.ErrTokenInvalid.
type TokenManager interface {
	Issue(subject string, issuedAt time.Time, ttl time.Duration) (string, error)
	Parse(token string) (entities.TokenClaims, error)
}

type EventPublisher interface {
	Publish(ctx context.Context, kind string, message string, payload map[string]any)
}

type Clock interface {
	Now() time.Time
}
