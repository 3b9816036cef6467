package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/fundbridge-kh/fundbridge/internal/shared"
)

type stubRepo struct {
	users map[string]*User
}

func (s *stubRepo) FindByEmail(_ context.Context, email string) (*User, error) {
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (s *stubRepo) FindByID(_ context.Context, id string) (*User, error) {
	if u, ok := s.users[id]; ok {
		return u, nil
	}
	return nil, shared.ErrNotFound
}

func hashOf(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func fixtureService(t *testing.T, users ...*User) *Service {
	t.Helper()
	repo := &stubRepo{users: map[string]*User{}}
	for _, u := range users {
		repo.users[u.ID] = u
	}
	return NewService(repo)
}

func TestAuthenticate(t *testing.T) {
	svc := fixtureService(t, &User{
		ID:           "u1",
		Email:        "advisor@fundbridge.kh",
		PasswordHash: hashOf(t, "s3cret"),
		Role:         "ADVISOR",
		IsActive:     true,
	})

	user, err := svc.Authenticate(context.Background(), "advisor@fundbridge.kh", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, "u1", user.ID)
	assert.Equal(t, "ADVISOR", user.Role)
}

func TestAuthenticateWrongPassword(t *testing.T) {
	svc := fixtureService(t, &User{
		ID:           "u1",
		Email:        "advisor@fundbridge.kh",
		PasswordHash: hashOf(t, "s3cret"),
		Role:         "ADVISOR",
		IsActive:     true,
	})

	_, err := svc.Authenticate(context.Background(), "advisor@fundbridge.kh", "wrong")
	assert.ErrorIs(t, err, shared.ErrInvalidCredentials)
}

func TestAuthenticateUnknownEmail(t *testing.T) {
	svc := fixtureService(t)

	_, err := svc.Authenticate(context.Background(), "nobody@fundbridge.kh", "s3cret")
	assert.ErrorIs(t, err, shared.ErrInvalidCredentials)
}

func TestAuthenticateInactiveAccount(t *testing.T) {
	svc := fixtureService(t, &User{
		ID:           "u1",
		Email:        "advisor@fundbridge.kh",
		PasswordHash: hashOf(t, "s3cret"),
		Role:         "ADVISOR",
		IsActive:     false,
	})

	_, err := svc.Authenticate(context.Background(), "advisor@fundbridge.kh", "s3cret")
	assert.ErrorIs(t, err, shared.ErrInvalidCredentials)
}

func TestAuthenticateRejectsUnknownRoleToken(t *testing.T) {
	// A stored role outside the enumeration must never reach a session.
	svc := fixtureService(t, &User{
		ID:           "u1",
		Email:        "advisor@fundbridge.kh",
		PasswordHash: hashOf(t, "s3cret"),
		Role:         "ROOT",
		IsActive:     true,
	})

	_, err := svc.Authenticate(context.Background(), "advisor@fundbridge.kh", "s3cret")
	assert.ErrorIs(t, err, shared.ErrInvalidCredentials)
}

func TestProfile(t *testing.T) {
	svc := fixtureService(t, &User{ID: "u1", Email: "advisor@fundbridge.kh", Role: "ADVISOR"})

	user, err := svc.Profile(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "advisor@fundbridge.kh", user.Email)

	_, err = svc.Profile(context.Background(), "missing")
	assert.ErrorIs(t, err, shared.ErrNotFound)
}
