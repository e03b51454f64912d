package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ojusave/murder-mystery-sub000/internal/domain"
)

type AdminRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.AdminUser, error)
	CreateIfMissing(ctx context.Context, email, passwordHash string) error
}

type AdminRepo struct{ pool *pgxpool.Pool }

func NewAdminRepo(pool *pgxpool.Pool) *AdminRepo { return &AdminRepo{pool: pool} }

func (r *AdminRepo) FindByEmail(ctx context.Context, email string) (*domain.AdminUser, error) {
	const q = `SELECT id, email, password_hash, created_at FROM admin_users WHERE email=$1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var a domain.AdminUser
	err := r.pool.QueryRow(ctx, q, email).Scan(&a.ID, &a.Email, &a.PasswordHash, &a.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// CreateIfMissing seeds the bootstrap admin account on startup.
func (r *AdminRepo) CreateIfMissing(ctx context.Context, email, passwordHash string) error {
	const q = `INSERT INTO admin_users (email, password_hash) VALUES ($1,$2)
  ON CONFLICT (email) DO NOTHING`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	_, err := r.pool.Exec(ctx, q, email, passwordHash)
	return err
}

var _ AdminRepository = (*AdminRepo)(nil)
