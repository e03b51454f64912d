package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ojusave/murder-mystery-sub000/internal/domain"
)

type EmailEventRepository interface {
	Record(ctx context.Context, guestID int64, typ domain.EmailType, status domain.EmailStatus, subject, message, errText string) (int64, error)
	ListByGuest(ctx context.Context, guestID int64) ([]domain.EmailEvent, error)
	ListQueued(ctx context.Context, limit int) ([]domain.EmailEvent, error)
	MarkResult(ctx context.Context, id int64, status domain.EmailStatus, errText string) (bool, error)
}

type EmailEventRepo struct{ pool *pgxpool.Pool }

func NewEmailEventRepo(pool *pgxpool.Pool) *EmailEventRepo { return &EmailEventRepo{pool: pool} }

const emailEventCols = `id, guest_id, type, status, subject, message, error, created_at, updated_at`

func scanEmailEvent(row pgx.Row) (*domain.EmailEvent, error) {
	var e domain.EmailEvent
	err := row.Scan(&e.ID, &e.GuestID, &e.Type, &e.Status, &e.Subject, &e.Message, &e.Error, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *EmailEventRepo) Record(ctx context.Context, guestID int64, typ domain.EmailType, status domain.EmailStatus, subject, message, errText string) (int64, error) {
	const q = `INSERT INTO email_events (guest_id, type, status, subject, message, error)
  VALUES ($1,$2,$3,$4,$5,$6) RETURNING id`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var id int64
	err := r.pool.QueryRow(ctx, q, guestID, typ, status, subject, message, errText).Scan(&id)
	return id, err
}

func (r *EmailEventRepo) ListByGuest(ctx context.Context, guestID int64) ([]domain.EmailEvent, error) {
	const q = `SELECT ` + emailEventCols + ` FROM email_events
  WHERE guest_id=$1 ORDER BY created_at DESC, id DESC`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	rows, err := r.pool.Query(ctx, q, guestID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectEmailEvents(rows)
}

func (r *EmailEventRepo) ListQueued(ctx context.Context, limit int) ([]domain.EmailEvent, error) {
	if limit <= 0 || limit > 100 {
		limit = 10
	}
	const q = `SELECT ` + emailEventCols + ` FROM email_events
  WHERE status='queued' ORDER BY created_at, id LIMIT $1`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	rows, err := r.pool.Query(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectEmailEvents(rows)
}

// MarkResult finalizes a queued event. The status guard makes the
// queued -> sent/failed transition happen at most once.
func (r *EmailEventRepo) MarkResult(ctx context.Context, id int64, status domain.EmailStatus, errText string) (bool, error) {
	if status != domain.EmailSent && status != domain.EmailFailed {
		return false, errors.New("result status must be sent or failed")
	}

	const q = `UPDATE email_events SET status=$2, error=$3, updated_at=now()
  WHERE id=$1 AND status='queued'`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	ct, err := r.pool.Exec(ctx, q, id, status, errText)
	if err != nil {
		return false, err
	}
	return ct.RowsAffected() > 0, nil
}

func collectEmailEvents(rows pgx.Rows) ([]domain.EmailEvent, error) {
	es := make([]domain.EmailEvent, 0, 16)
	for rows.Next() {
		e, err := scanEmailEvent(rows)
		if err != nil {
			return nil, err
		}
		es = append(es, *e)
	}
	return es, rows.Err()
}

var _ EmailEventRepository = (*EmailEventRepo)(nil)
