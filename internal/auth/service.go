package auth

import (
	"context"

	"golang.org/x/crypto/bcrypt"

	"github.com/fundbridge-kh/fundbridge/internal/authz"
	"github.com/fundbridge-kh/fundbridge/internal/shared"
)

// Service wraps authentication business rules.
type Service struct {
	repo Repository
}

// NewService constructs a new Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Authenticate validates email/password credentials. The stored role token
// is checked against the role enumeration here, at the boundary where the
// actor identity is established, so the resolver never sees an invalid one.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*User, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, shared.ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, shared.ErrInvalidCredentials
	}
	if _, err := authz.ParseRole(user.Role); err != nil {
		return nil, shared.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, shared.ErrInvalidCredentials
	}
	return user, nil
}

// Profile fetches the account for an authenticated actor.
func (s *Service) Profile(ctx context.Context, id string) (*User, error) {
	return s.repo.FindByID(ctx, id)
}
