package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ojusave/murder-mystery-sub000/internal/domain"
)

type FAQRepository interface {
	Create(ctx context.Context, in *domain.FAQCreateReq) (*domain.FAQ, error)
	GetByID(ctx context.Context, id int64) (*domain.FAQ, error)
	ListActive(ctx context.Context) ([]domain.FAQ, error)
	ListAll(ctx context.Context) ([]domain.FAQ, error)
	UpdatePatch(ctx context.Context, id int64, patch domain.FAQPatch) (*domain.FAQ, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

type FAQRepo struct{ pool *pgxpool.Pool }

func NewFAQRepo(pool *pgxpool.Pool) *FAQRepo { return &FAQRepo{pool: pool} }

const faqCols = `id, question, answer, sort_order, active, created_at, updated_at`

func scanFAQ(row pgx.Row) (*domain.FAQ, error) {
	var f domain.FAQ
	err := row.Scan(&f.ID, &f.Question, &f.Answer, &f.SortOrder, &f.Active, &f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *FAQRepo) Create(ctx context.Context, in *domain.FAQCreateReq) (*domain.FAQ, error) {
	const q = `INSERT INTO faqs (question, answer, sort_order, active)
  VALUES ($1,$2,$3,$4) RETURNING ` + faqCols

	active := true
	if in.Active != nil {
		active = *in.Active
	}

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	return scanFAQ(r.pool.QueryRow(ctx, q, in.Question, in.Answer, in.SortOrder, active))
}

func (r *FAQRepo) GetByID(ctx context.Context, id int64) (*domain.FAQ, error) {
	const q = `SELECT ` + faqCols + ` FROM faqs WHERE id=$1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	f, err := scanFAQ(r.pool.QueryRow(ctx, q, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return f, err
}

func (r *FAQRepo) ListActive(ctx context.Context) ([]domain.FAQ, error) {
	const q = `SELECT ` + faqCols + ` FROM faqs WHERE active ORDER BY sort_order, id`
	return r.query(ctx, q)
}

func (r *FAQRepo) ListAll(ctx context.Context) ([]domain.FAQ, error) {
	const q = `SELECT ` + faqCols + ` FROM faqs ORDER BY sort_order, id`
	return r.query(ctx, q)
}

func (r *FAQRepo) query(ctx context.Context, q string) ([]domain.FAQ, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	fs := make([]domain.FAQ, 0, 16)
	for rows.Next() {
		f, err := scanFAQ(rows)
		if err != nil {
			return nil, err
		}
		fs = append(fs, *f)
	}
	return fs, rows.Err()
}

func (r *FAQRepo) UpdatePatch(ctx context.Context, id int64, patch domain.FAQPatch) (*domain.FAQ, error) {
	const q = `UPDATE faqs SET
    question = COALESCE($2, question),
    answer = COALESCE($3, answer),
    sort_order = COALESCE($4, sort_order),
    active = COALESCE($5, active),
    updated_at = now()
  WHERE id=$1
  RETURNING ` + faqCols

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	f, err := scanFAQ(r.pool.QueryRow(ctx, q, id, patch.Question, patch.Answer, patch.SortOrder, patch.Active))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return f, err
}

func (r *FAQRepo) Delete(ctx context.Context, id int64) (bool, error) {
	const q = `DELETE FROM faqs WHERE id=$1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	ct, err := r.pool.Exec(ctx, q, id)
	if err != nil {
		return false, err
	}
	return ct.RowsAffected() > 0, nil
}

var _ FAQRepository = (*FAQRepo)(nil)
