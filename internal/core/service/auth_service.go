package service

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"

	"github.com/basewebproject/base-api/internal/core/domain"
	"github.com/basewebproject/base-api/internal/core/ports"
)

// AuthService implements login, identity lookup and the admin bootstrap.
type AuthService struct {
	users  ports.UserRepository
	tokens ports.TokenManager
	hasher ports.PasswordHasher
	log    zerolog.Logger
}

func NewAuthService(users ports.UserRepository, tokens ports.TokenManager, hasher ports.PasswordHasher, log zerolog.Logger) *AuthService {
	return &AuthService{users: users, tokens: tokens, hasher: hasher, log: log}
}

// Login verifies the credentials and issues a session token. Unknown emails
// and wrong passwords both yield domain.ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (*ports.LoginResult, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if !s.hasher.Verify(user.PasswordHash, password) {
		return nil, domain.ErrInvalidCredentials
	}

	token, expiresAt, err := s.tokens.Issue(user)
	if err != nil {
		return nil, err
	}

	s.log.Info().Int64("user_id", user.ID).Msg("login succeeded")
	return &ports.LoginResult{AccessToken: token, ExpiresAt: expiresAt, User: user}, nil
}

// Me loads the account behind an authenticated principal.
func (s *AuthService) Me(ctx context.Context, principal *domain.Principal) (*domain.User, error) {
	if principal == nil {
		return nil, domain.Unauthorized("missing authentication", nil)
	}

	user, err := s.users.FindByID(ctx, principal.ID)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return nil, domain.Unauthorized("user no longer exists", err)
		}
		return nil, err
	}
	return user, nil
}

// AdminSeed describes the bootstrap administrator account.
type AdminSeed struct {
	Name     string
	Email    string
	Password string
}

// SeedAdmin creates the administrator account unless one with the same
// email exists. It reports whether an account was created.
func (s *AuthService) SeedAdmin(ctx context.Context, seed AdminSeed) (bool, error) {
	if seed.Name == "" || seed.Email == "" || seed.Password == "" {
		return false, domain.InvalidInput("admin name, email and password are required")
	}

	_, err := s.users.FindByEmail(ctx, seed.Email)
	switch {
	case err == nil:
		s.log.Info().Str("email", seed.Email).Msg("admin already exists, skipping")
		return false, nil
	case !errors.Is(err, domain.ErrRecordNotFound):
		return false, err
	}

	hash, err := s.hasher.Hash(seed.Password)
	if err != nil {
		return false, err
	}

	admin := &domain.User{
		Name:         seed.Name,
		Login:        domain.LoginFromEmail(seed.Email),
		Email:        seed.Email,
		PasswordHash: hash,
		Role:         domain.RoleAdmin,
	}
	if err := s.users.Insert(ctx, admin); err != nil {
		return false, err
	}

	s.log.Info().Int64("user_id", admin.ID).Str("email", admin.Email).Msg("admin created")
	return true, nil
}
