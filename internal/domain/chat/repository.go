package chat

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Repository defines message data access interface
type Repository interface {
	CreateMessage(ctx context.Context, msg *Message) error
	// ListByMatch pages backwards from the cursor (keyset on created_at),
	// newest first. A zero cursor starts from the latest message.
	ListByMatch(ctx context.Context, matchID uuid.UUID, before time.Time, limit int) ([]*Message, error)
}

type repository struct {
	db *sqlx.DB
}

// NewRepository creates new message repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateMessage(ctx context.Context, msg *Message) error {
	query := `
		INSERT INTO messages (id, match_id, sender_id, content, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.db.ExecContext(ctx, query, msg.ID, msg.MatchID, msg.SenderID, msg.Content, msg.CreatedAt)
	return err
}

func (r *repository) ListByMatch(ctx context.Context, matchID uuid.UUID, before time.Time, limit int) ([]*Message, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if before.IsZero() {
		before = time.Now().Add(time.Second)
	}

	query := `
		SELECT * FROM messages
		WHERE match_id = $1 AND created_at < $2
		ORDER BY created_at DESC
		LIMIT $3
	`
	var messages []*Message
	err := r.db.SelectContext(ctx, &messages, query, matchID, before, limit)
	return messages, err
}
