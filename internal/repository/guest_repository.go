package repository

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ojusave/murder-mystery-sub000/internal/domain"
)

type GuestRepository interface {
	Create(ctx context.Context, in *domain.GuestCreateReq, token string) (*domain.Guest, error)
	GetByID(ctx context.Context, id int64) (*domain.Guest, error)
	GetByToken(ctx context.Context, token string) (*domain.Guest, error)
	List(ctx context.Context, status *domain.GuestStatus, limit, offset int) ([]domain.Guest, error)
	ListApproved(ctx context.Context) ([]domain.Guest, error)
	UpdatePatch(ctx context.Context, id int64, patch domain.GuestPatch) (*domain.Guest, error)
	UpdateStatus(ctx context.Context, id int64, from, to domain.GuestStatus) (bool, error)
	MarkReminderSent(ctx context.Context, id int64, kind domain.ReminderKind) (bool, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

type GuestRepo struct{ pool *pgxpool.Pool }

func NewGuestRepo(pool *pgxpool.Pool) *GuestRepo { return &GuestRepo{pool: pool} }

const guestCols = `id, access_token, status, email, name,
interest, dress_up, gender_preference, character_preference, talents, bring_items,
reminder_one_week_sent, reminder_two_day_sent, reminder_one_day_sent, reminder_five_hour_sent,
created_at, updated_at`

func scanGuest(row pgx.Row) (*domain.Guest, error) {
	var g domain.Guest
	err := row.Scan(
		&g.ID, &g.AccessToken, &g.Status, &g.Email, &g.Name,
		&g.Interest, &g.DressUp, &g.GenderPreference, &g.CharacterPreference, &g.Talents, &g.BringItems,
		&g.ReminderOneWeekSent, &g.ReminderTwoDaySent, &g.ReminderOneDaySent, &g.ReminderFiveHourSent,
		&g.CreatedAt, &g.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &g, nil
}

func (r *GuestRepo) Create(ctx context.Context, in *domain.GuestCreateReq, token string) (*domain.Guest, error) {
	const q = `INSERT INTO guests (
    access_token, status, email, name,
    interest, dress_up, gender_preference, character_preference, talents, bring_items
  ) VALUES ($1,'pending',$2,$3,$4,$5,$6,$7,$8,$9)
  RETURNING ` + guestCols

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	g, err := scanGuest(r.pool.QueryRow(ctx, q, token,
		in.Email, in.Name,
		in.Interest, in.DressUp, in.GenderPreference, in.CharacterPreference, in.Talents, in.BringItems,
	))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domain.ErrDuplicateEmail
		}
		return nil, err
	}
	return g, nil
}

func (r *GuestRepo) GetByID(ctx context.Context, id int64) (*domain.Guest, error) {
	const q = `SELECT ` + guestCols + ` FROM guests WHERE id=$1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	g, err := scanGuest(r.pool.QueryRow(ctx, q, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return g, err
}

func (r *GuestRepo) GetByToken(ctx context.Context, token string) (*domain.Guest, error) {
	const q = `SELECT ` + guestCols + ` FROM guests WHERE access_token=$1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	g, err := scanGuest(r.pool.QueryRow(ctx, q, token))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return g, err
}

func (r *GuestRepo) List(ctx context.Context, status *domain.GuestStatus, limit, offset int) ([]domain.Guest, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	q := `SELECT ` + guestCols + ` FROM guests`
	args := []any{}
	if status != nil {
		q += ` WHERE status=$1`
		args = append(args, *status)
	}
	q += ` ORDER BY created_at DESC LIMIT $` + strconv.Itoa(len(args)+1) + ` OFFSET $` + strconv.Itoa(len(args)+2)
	args = append(args, limit, offset)

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectGuests(rows, limit)
}

func (r *GuestRepo) ListApproved(ctx context.Context) ([]domain.Guest, error) {
	const q = `SELECT ` + guestCols + ` FROM guests WHERE status='approved' ORDER BY id`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectGuests(rows, 0)
}

func (r *GuestRepo) UpdatePatch(ctx context.Context, id int64, patch domain.GuestPatch) (*domain.Guest, error) {
	const q = `UPDATE guests SET
    name = COALESCE($2, name),
    interest = COALESCE($3, interest),
    dress_up = COALESCE($4, dress_up),
    gender_preference = COALESCE($5, gender_preference),
    character_preference = COALESCE($6, character_preference),
    talents = COALESCE($7, talents),
    bring_items = COALESCE($8, bring_items),
    updated_at = now()
  WHERE id=$1
  RETURNING ` + guestCols

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	g, err := scanGuest(r.pool.QueryRow(ctx, q, id,
		patch.Name, patch.Interest, patch.DressUp,
		patch.GenderPreference, patch.CharacterPreference, patch.Talents, patch.BringItems,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return g, err
}

// UpdateStatus transitions status only when the current value still matches
// `from`, so concurrent admin actions cannot double-apply a transition.
func (r *GuestRepo) UpdateStatus(ctx context.Context, id int64, from, to domain.GuestStatus) (bool, error) {
	const q = `UPDATE guests SET status=$3, updated_at=now() WHERE id=$1 AND status=$2`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	ct, err := r.pool.Exec(ctx, q, id, from, to)
	if err != nil {
		return false, err
	}
	return ct.RowsAffected() > 0, nil
}

// MarkReminderSent flips a reminder flag only if it is currently unset.
// Returns false when another invocation already claimed the window.
func (r *GuestRepo) MarkReminderSent(ctx context.Context, id int64, kind domain.ReminderKind) (bool, error) {
	col, ok := reminderColumns[kind]
	if !ok {
		return false, domain.Validationf("unknown reminder kind %q", kind)
	}

	q := `UPDATE guests SET ` + col + `=TRUE, updated_at=now() WHERE id=$1 AND ` + col + `=FALSE`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	ct, err := r.pool.Exec(ctx, q, id)
	if err != nil {
		return false, err
	}
	return ct.RowsAffected() > 0, nil
}

var reminderColumns = map[domain.ReminderKind]string{
	domain.ReminderOneWeek:  "reminder_one_week_sent",
	domain.ReminderTwoDay:   "reminder_two_day_sent",
	domain.ReminderOneDay:   "reminder_one_day_sent",
	domain.ReminderFiveHour: "reminder_five_hour_sent",
}

func (r *GuestRepo) Delete(ctx context.Context, id int64) (bool, error) {
	const q = `DELETE FROM guests WHERE id=$1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	ct, err := r.pool.Exec(ctx, q, id)
	if err != nil {
		return false, err
	}
	return ct.RowsAffected() > 0, nil
}

func collectGuests(rows pgx.Rows, sizeHint int) ([]domain.Guest, error) {
	gs := make([]domain.Guest, 0, sizeHint)
	for rows.Next() {
		g, err := scanGuest(rows)
		if err != nil {
			return nil, err
		}
		gs = append(gs, *g)
	}
	return gs, rows.Err()
}

var _ GuestRepository = (*GuestRepo)(nil)
