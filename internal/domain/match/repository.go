package match

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Repository defines match data access. Matches are created by the
// request accept transaction, not here; this side only reads and
// transitions them.
type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Match, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*Match, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to Status) (bool, error)
	// BlockBetween flips every active match between the pair to blocked,
	// returning the IDs of the matches it changed
	BlockBetween(ctx context.Context, a, b uuid.UUID) ([]uuid.UUID, error)
}

type repository struct {
	db *sqlx.DB
}

// NewRepository creates new match repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Match, error) {
	query := `SELECT * FROM matches WHERE id = $1`
	var m Match
	err := r.db.GetContext(ctx, &m, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &m, nil
}

func (r *repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*Match, error) {
	query := `
		SELECT * FROM matches
		WHERE user1_id = $1 OR user2_id = $1
		ORDER BY created_at DESC
	`
	var matches []*Match
	err := r.db.SelectContext(ctx, &matches, query, userID)
	return matches, err
}

// UpdateStatus transitions a match only when it is still in the expected
// state, reporting whether a row changed.
func (r *repository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to Status) (bool, error) {
	result, err := r.db.ExecContext(ctx, `
		UPDATE matches SET status = $3 WHERE id = $1 AND status = $2
	`, id, from, to)
	if err != nil {
		return false, err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}

func (r *repository) BlockBetween(ctx context.Context, a, b uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.SelectContext(ctx, &ids, `
		UPDATE matches SET status = 'blocked'
		WHERE status = 'active'
		  AND ((user1_id = $1 AND user2_id = $2) OR (user1_id = $2 AND user2_id = $1))
		RETURNING id
	`, a, b)
	return ids, err
}
