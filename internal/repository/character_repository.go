package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ojusave/murder-mystery-sub000/internal/domain"
)

type CharacterRepository interface {
	Create(ctx context.Context, in *domain.CharacterCreateReq) (*domain.Character, error)
	GetByID(ctx context.Context, id int64) (*domain.Character, error)
	GetByGuest(ctx context.Context, guestID int64) (*domain.Character, error)
	List(ctx context.Context) ([]domain.Character, error)
	ListUnassigned(ctx context.Context) ([]domain.Character, error)
	UpdatePatch(ctx context.Context, id int64, patch domain.CharacterPatch, traits domain.Traits) (*domain.Character, error)
	Assign(ctx context.Context, id, guestID int64, at time.Time) (bool, error)
	Unassign(ctx context.Context, id int64) (bool, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

type CharacterRepo struct{ pool *pgxpool.Pool }

func NewCharacterRepo(pool *pgxpool.Pool) *CharacterRepo { return &CharacterRepo{pool: pool} }

const characterCols = `id, guest_id, display_name, traits, host_notes, assigned_at, created_at, updated_at`

func scanCharacter(row pgx.Row) (*domain.Character, error) {
	var (
		c   domain.Character
		raw []byte
	)
	err := row.Scan(&c.ID, &c.GuestID, &c.DisplayName, &raw, &c.HostNotes, &c.AssignedAt, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if c.Traits, err = domain.ParseTraits(raw); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CharacterRepo) Create(ctx context.Context, in *domain.CharacterCreateReq) (*domain.Character, error) {
	const q = `INSERT INTO characters (guest_id, display_name, traits, host_notes, assigned_at)
  VALUES ($1,$2,$3,$4, CASE WHEN $1::bigint IS NULL THEN NULL ELSE now() END)
  RETURNING ` + characterCols

	traits, err := domain.Traits{Backstory: in.Backstory, Extra: in.Extra}.Value()
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	c, err := scanCharacter(r.pool.QueryRow(ctx, q, in.GuestID, in.DisplayName, traits, in.HostNotes))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domain.ErrCharacterTaken
		}
		return nil, err
	}
	return c, nil
}

func (r *CharacterRepo) GetByID(ctx context.Context, id int64) (*domain.Character, error) {
	const q = `SELECT ` + characterCols + ` FROM characters WHERE id=$1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	c, err := scanCharacter(r.pool.QueryRow(ctx, q, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return c, err
}

func (r *CharacterRepo) GetByGuest(ctx context.Context, guestID int64) (*domain.Character, error) {
	const q = `SELECT ` + characterCols + ` FROM characters WHERE guest_id=$1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	c, err := scanCharacter(r.pool.QueryRow(ctx, q, guestID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return c, err
}

func (r *CharacterRepo) List(ctx context.Context) ([]domain.Character, error) {
	const q = `SELECT ` + characterCols + ` FROM characters ORDER BY display_name`
	return r.query(ctx, q)
}

func (r *CharacterRepo) ListUnassigned(ctx context.Context) ([]domain.Character, error) {
	const q = `SELECT ` + characterCols + ` FROM characters WHERE guest_id IS NULL ORDER BY display_name`
	return r.query(ctx, q)
}

func (r *CharacterRepo) query(ctx context.Context, q string, args ...any) ([]domain.Character, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cs := make([]domain.Character, 0, 16)
	for rows.Next() {
		c, err := scanCharacter(rows)
		if err != nil {
			return nil, err
		}
		cs = append(cs, *c)
	}
	return cs, rows.Err()
}

func (r *CharacterRepo) UpdatePatch(ctx context.Context, id int64, patch domain.CharacterPatch, traits domain.Traits) (*domain.Character, error) {
	const q = `UPDATE characters SET
    display_name = COALESCE($2, display_name),
    traits = $3,
    host_notes = COALESCE($4, host_notes),
    updated_at = now()
  WHERE id=$1
  RETURNING ` + characterCols

	raw, err := traits.Value()
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	c, err := scanCharacter(r.pool.QueryRow(ctx, q, id, patch.DisplayName, raw, patch.HostNotes))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return c, err
}

// Assign attaches an unassigned character to a guest. The unique index on
// guest_id rejects a second character for the same guest.
func (r *CharacterRepo) Assign(ctx context.Context, id, guestID int64, at time.Time) (bool, error) {
	const q = `UPDATE characters SET guest_id=$2, assigned_at=$3, updated_at=now()
  WHERE id=$1 AND guest_id IS NULL`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	ct, err := r.pool.Exec(ctx, q, id, guestID, at)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return false, domain.ErrCharacterTaken
		}
		return false, err
	}
	return ct.RowsAffected() > 0, nil
}

func (r *CharacterRepo) Unassign(ctx context.Context, id int64) (bool, error) {
	const q = `UPDATE characters SET guest_id=NULL, assigned_at=NULL, updated_at=now()
  WHERE id=$1 AND guest_id IS NOT NULL`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	ct, err := r.pool.Exec(ctx, q, id)
	if err != nil {
		return false, err
	}
	return ct.RowsAffected() > 0, nil
}

func (r *CharacterRepo) Delete(ctx context.Context, id int64) (bool, error) {
	const q = `DELETE FROM characters WHERE id=$1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	ct, err := r.pool.Exec(ctx, q, id)
	if err != nil {
		return false, err
	}
	return ct.RowsAffected() > 0, nil
}

var _ CharacterRepository = (*CharacterRepo)(nil)
