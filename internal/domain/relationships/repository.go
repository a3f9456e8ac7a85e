package relationships

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Repository defines block data access interface
type Repository interface {
	CreateBlock(ctx context.Context, b *BlockRelation) error
	DeleteBlock(ctx context.Context, blockerID, blockedID uuid.UUID) error
	ListBlocks(ctx context.Context, blockerID uuid.UUID) ([]*BlockRelation, error)
	// ListPeerIDs returns the symmetric closure for a user: everyone they
	// blocked plus everyone who blocked them.
	ListPeerIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
	HasBlockEither(ctx context.Context, a, b uuid.UUID) (bool, error)
}

type repository struct {
	db *sqlx.DB
}

// NewRepository creates new block repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateBlock(ctx context.Context, b *BlockRelation) error {
	query := `
		INSERT INTO blocked_users (blocker_id, blocked_id, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (blocker_id, blocked_id) DO NOTHING
	`
	_, err := r.db.ExecContext(ctx, query, b.BlockerID, b.BlockedID, b.CreatedAt)
	return err
}

func (r *repository) DeleteBlock(ctx context.Context, blockerID, blockedID uuid.UUID) error {
	query := `DELETE FROM blocked_users WHERE blocker_id = $1 AND blocked_id = $2`
	_, err := r.db.ExecContext(ctx, query, blockerID, blockedID)
	return err
}

func (r *repository) ListBlocks(ctx context.Context, blockerID uuid.UUID) ([]*BlockRelation, error) {
	query := `
		SELECT * FROM blocked_users
		WHERE blocker_id = $1
		ORDER BY created_at DESC
	`
	var blocks []*BlockRelation
	err := r.db.SelectContext(ctx, &blocks, query, blockerID)
	return blocks, err
}

func (r *repository) ListPeerIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	query := `
		SELECT blocked_id FROM blocked_users WHERE blocker_id = $1
		UNION
		SELECT blocker_id FROM blocked_users WHERE blocked_id = $1
	`
	var ids []uuid.UUID
	err := r.db.SelectContext(ctx, &ids, query, userID)
	return ids, err
}

func (r *repository) HasBlockEither(ctx context.Context, a, b uuid.UUID) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM blocked_users
			WHERE (blocker_id = $1 AND blocked_id = $2)
			   OR (blocker_id = $2 AND blocked_id = $1)
		)
	`
	var exists bool
	err := r.db.GetContext(ctx, &exists, query, a, b)
	return exists, err
}
