package request

import (
	"time"

	"github.com/google/uuid"

	"github.com/moim/moim-api/internal/domain/policy"
)

// Status represents the join request lifecycle state. Accepted and
// rejected are terminal.
type Status string

const (
	StatusPending  Status = "pending"
	StatusAccepted Status = "accepted"
	StatusRejected Status = "rejected"
)

// Request represents a user's ask to join a room
type Request struct {
	ID           uuid.UUID  `db:"id" json:"id"`
	RoomID       uuid.UUID  `db:"room_id" json:"room_id"`
	UserID       uuid.UUID  `db:"user_id" json:"user_id"`
	Status       Status     `db:"status" json:"status"`
	Message      *string    `db:"message" json:"message,omitempty"`
	RejectReason *string    `db:"reject_reason" json:"reject_reason,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	DecidedAt    *time.Time `db:"decided_at" json:"decided_at,omitempty"`
}

// IsPending reports whether the request still awaits a decision
func (r *Request) IsPending() bool {
	return r.Status == StatusPending
}

// View returns the policy evaluator's slice of this row
func (r *Request) View() policy.RequestView {
	return policy.RequestView{
		ID:     r.ID,
		RoomID: r.RoomID,
		UserID: r.UserID,
		Status: string(r.Status),
	}
}
