package profile

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Repository defines profile data access interface
type Repository interface {
	Create(ctx context.Context, p *Profile) error
	GetByUID(ctx context.Context, uid uuid.UUID) (*Profile, error)
	GetByEmail(ctx context.Context, email string) (*Profile, error)
	Update(ctx context.Context, p *Profile) error
}

type repository struct {
	db *sqlx.DB
}

// NewRepository creates new profile repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, p *Profile) error {
	query := `
		INSERT INTO profiles (uid, email, password_hash, nickname, age_range, role, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.ExecContext(ctx, query,
		p.UID,
		p.Email,
		p.PasswordHash,
		p.Nickname,
		p.AgeRange,
		p.Role,
		p.CreatedAt,
	)
	return err
}

func (r *repository) GetByUID(ctx context.Context, uid uuid.UUID) (*Profile, error) {
	query := `SELECT * FROM profiles WHERE uid = $1`
	var p Profile
	err := r.db.GetContext(ctx, &p, query, uid)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *repository) GetByEmail(ctx context.Context, email string) (*Profile, error) {
	query := `SELECT * FROM profiles WHERE email = $1`
	var p Profile
	err := r.db.GetContext(ctx, &p, query, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *repository) Update(ctx context.Context, p *Profile) error {
	query := `
		UPDATE profiles
		SET nickname = $2, age_range = $3, role = $4
		WHERE uid = $1
	`
	_, err := r.db.ExecContext(ctx, query, p.UID, p.Nickname, p.AgeRange, p.Role)
	return err
}
