package report

import (
	"time"

	"github.com/google/uuid"

	"github.com/moim/moim-api/internal/domain/policy"
)

// TargetType names the kind of entity being reported
type TargetType string

const (
	TargetProfile TargetType = "profile"
	TargetRoom    TargetType = "room"
	TargetMessage TargetType = "message"
)

// Status represents the moderation workflow state
type Status string

const (
	StatusOpen      Status = "open"
	StatusReviewing Status = "reviewing"
	StatusResolved  Status = "resolved"
	StatusDismissed Status = "dismissed"
)

// Report is a user-submitted complaint. Reporters see only their own
// reports; the moderation queue is admin territory.
type Report struct {
	ID         uuid.UUID  `db:"id" json:"id"`
	ReporterID uuid.UUID  `db:"reporter_id" json:"reporter_id"`
	TargetType TargetType `db:"target_type" json:"target_type"`
	TargetID   uuid.UUID  `db:"target_id" json:"target_id"`
	Reason     string     `db:"reason" json:"reason"`
	Details    string     `db:"details" json:"details,omitempty"`
	Status     Status     `db:"status" json:"status"`
	CreatedAt  time.Time  `db:"created_at" json:"created_at"`
	ResolvedAt *time.Time `db:"resolved_at" json:"resolved_at,omitempty"`
}

// View returns the policy evaluator's slice of this row
func (r *Report) View() policy.ReportView {
	return policy.ReportView{
		ID:         r.ID,
		ReporterID: r.ReporterID,
	}
}
