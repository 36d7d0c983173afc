package ports

import (
	"context"

	"github.com/basewebproject/base-api/internal/core/domain"
)

// UserRepository adds credential lookups to the generic user store.
type UserRepository interface {
	Repository[domain.User]
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
}
