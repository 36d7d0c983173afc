package ports

import (
	"context"
	"time"

	"github.com/basewebproject/base-api/internal/core/domain"
)

// LoginResult is returned on successful authentication.
type LoginResult struct {
	AccessToken string
	ExpiresAt   time.Time
	User        *domain.User
}

type AuthService interface {
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	Me(ctx context.Context, principal *domain.Principal) (*domain.User, error)
}

// TokenManager issues and validates signed session tokens.
type TokenManager interface {
	Issue(user *domain.User) (string, time.Time, error)
	Validate(raw string) (*domain.Principal, error)
}

// PasswordHasher hashes and verifies secrets.
type PasswordHasher interface {
	Hash(plain string) (string, error)
	Verify(hash, plain string) bool
}
