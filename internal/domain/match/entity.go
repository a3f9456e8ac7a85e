package match

import (
	"time"

	"github.com/google/uuid"

	"github.com/moim/moim-api/internal/domain/policy"
)

// Status represents the match lifecycle state. A match goes active on
// creation, ends when a participant closes it, and flips to blocked when
// either side blocks the other.
type Status string

const (
	StatusActive  Status = "active"
	StatusEnded   Status = "ended"
	StatusBlocked Status = "blocked"
)

// Match pairs the room host with an accepted requester. It is the
// conversation anchor: messages hang off the match, not the room.
type Match struct {
	ID        uuid.UUID `db:"id" json:"id"`
	RoomID    uuid.UUID `db:"room_id" json:"room_id"`
	User1ID   uuid.UUID `db:"user1_id" json:"user1_id"`
	User2ID   uuid.UUID `db:"user2_id" json:"user2_id"`
	Status    Status    `db:"status" json:"status"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// HasParticipant reports whether the user is one of the match's two sides
func (m *Match) HasParticipant(userID uuid.UUID) bool {
	return m.User1ID == userID || m.User2ID == userID
}

// OtherParticipant returns the peer across from the given user
func (m *Match) OtherParticipant(userID uuid.UUID) uuid.UUID {
	if m.User1ID == userID {
		return m.User2ID
	}
	return m.User1ID
}

// View returns the policy evaluator's slice of this row
func (m *Match) View() policy.MatchView {
	return policy.MatchView{
		ID:      m.ID,
		User1ID: m.User1ID,
		User2ID: m.User2ID,
		Status:  string(m.Status),
	}
}
