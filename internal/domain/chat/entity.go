package chat

import (
	"time"

	"github.com/google/uuid"
)

// Message belongs to a match, never to a room. The match status gates
// sending: once the match ends or flips to blocked, the thread is
// read-only for both sides.
type Message struct {
	ID        uuid.UUID `db:"id" json:"id"`
	MatchID   uuid.UUID `db:"match_id" json:"match_id"`
	SenderID  uuid.UUID `db:"sender_id" json:"sender_id"`
	Content   string    `db:"content" json:"content"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
