package service

import (
	"context"
	"testing"
	"time"

	"github.com/alexedwards/argon2id"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ojusave/murder-mystery-sub000/internal/auth"
	"github.com/ojusave/murder-mystery-sub000/internal/domain"
)

type memAdminRepo struct {
	admins map[string]*domain.AdminUser
}

func (r *memAdminRepo) FindByEmail(_ context.Context, email string) (*domain.AdminUser, error) {
	a, ok := r.admins[email]
	if !ok {
		return nil, nil
	}
	return a, nil
}

func (r *memAdminRepo) CreateIfMissing(_ context.Context, email, passwordHash string) error {
	if _, ok := r.admins[email]; ok {
		return nil
	}
	r.admins[email] = &domain.AdminUser{ID: int64(len(r.admins) + 1), Email: email, PasswordHash: passwordHash}
	return nil
}

func newAuthFixture(t *testing.T, password string) (AuthService, *memAdminRepo) {
	t.Helper()
	repo := &memAdminRepo{admins: map[string]*domain.AdminUser{}}
	if password != "" {
		hash, err := argon2id.CreateHash(password, argon2id.DefaultParams)
		require.NoError(t, err)
		repo.admins["host@example.com"] = &domain.AdminUser{ID: 1, Email: "host@example.com", PasswordHash: hash}
	}
	return NewAuthService(repo, "test-secret", time.Hour), repo
}

func TestLogin(t *testing.T) {
	svc, _ := newAuthFixture(t, "correct horse battery")

	res, err := svc.Login(context.Background(), &domain.LoginReq{
		Email:    "Host@Example.com",
		Password: "correct horse battery",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, res.AccessToken)
	assert.True(t, res.ExpiresAt.After(time.Now()))

	claims, err := auth.Parse(res.AccessToken, "test-secret")
	require.NoError(t, err)
	assert.Equal(t, "host@example.com", claims.Email)
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _ := newAuthFixture(t, "correct horse battery")

	_, err := svc.Login(context.Background(), &domain.LoginReq{
		Email:    "host@example.com",
		Password: "wrong password",
	})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestLoginUnknownAdmin(t *testing.T) {
	svc, _ := newAuthFixture(t, "")

	_, err := svc.Login(context.Background(), &domain.LoginReq{
		Email:    "nobody@example.com",
		Password: "whatever-password",
	})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestLoginValidation(t *testing.T) {
	svc, _ := newAuthFixture(t, "correct horse battery")

	_, err := svc.Login(context.Background(), &domain.LoginReq{Email: "not-an-email", Password: "long enough"})
	assert.True(t, domain.IsValidation(err))

	_, err = svc.Login(context.Background(), &domain.LoginReq{Email: "host@example.com", Password: "short"})
	assert.True(t, domain.IsValidation(err))
}

func TestSeedAdmin(t *testing.T) {
	svc, repo := newAuthFixture(t, "")

	require.NoError(t, svc.SeedAdmin(context.Background(), "Host@Example.com", "bootstrap password"))
	require.NotNil(t, repo.admins["host@example.com"])

	// Blank password disables seeding.
	require.NoError(t, svc.SeedAdmin(context.Background(), "other@example.com", ""))
	assert.Nil(t, repo.admins["other@example.com"])
}
