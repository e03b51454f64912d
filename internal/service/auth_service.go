package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexedwards/argon2id"
	"github.com/go-playground/validator/v10"

	"github.com/ojusave/murder-mystery-sub000/internal/auth"
	"github.com/ojusave/murder-mystery-sub000/internal/domain"
	"github.com/ojusave/murder-mystery-sub000/internal/repository"
	"github.com/ojusave/murder-mystery-sub000/pkg/logger"
)

type AuthService interface {
	Login(ctx context.Context, req *domain.LoginReq) (*domain.LoginRes, error)
	SeedAdmin(ctx context.Context, email, password string) error
}

type authService struct {
	admins   repository.AdminRepository
	secret   string
	tokenTTL time.Duration
	validate *validator.Validate
}

func NewAuthService(admins repository.AdminRepository, secret string, tokenTTL time.Duration) AuthService {
	return &authService{
		admins:   admins,
		secret:   secret,
		tokenTTL: tokenTTL,
		validate: validator.New(),
	}
}

func (s *authService) Login(ctx context.Context, req *domain.LoginReq) (*domain.LoginRes, error) {
	req.Email = domain.NormalizeEmail(req.Email)
	if err := s.validate.Struct(req); err != nil {
		return nil, domain.Validationf("invalid credentials payload: %v", err)
	}

	admin, err := s.admins.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to look up admin: %w", err)
	}
	if admin == nil {
		return nil, domain.ErrUnauthorized
	}

	match, err := argon2id.ComparePasswordAndHash(req.Password, admin.PasswordHash)
	if err != nil || !match {
		return nil, domain.ErrUnauthorized
	}

	expiresAt := time.Now().Add(s.tokenTTL)
	token, err := auth.NewAccessToken(admin.ID, admin.Email, s.secret, s.tokenTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	return &domain.LoginRes{AccessToken: token, ExpiresAt: expiresAt}, nil
}

// SeedAdmin provisions the bootstrap admin account at startup. A blank
// password disables seeding.
func (s *authService) SeedAdmin(ctx context.Context, email, password string) error {
	if password == "" {
		logger.Warn("ADMIN_PASSWORD not set; skipping admin seed")
		return nil
	}

	hash, err := argon2id.CreateHash(password, argon2id.DefaultParams)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	return s.admins.CreateIfMissing(ctx, domain.NormalizeEmail(email), hash)
}
