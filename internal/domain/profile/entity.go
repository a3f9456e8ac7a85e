package profile

import (
	"time"

	"github.com/google/uuid"

	"github.com/moim/moim-api/internal/domain/policy"
)

// AgeRange buckets shown on a profile
const (
	AgeRange10s     = "10s"
	AgeRange20s     = "20s"
	AgeRange30s     = "30s"
	AgeRange40s     = "40s"
	AgeRange50sPlus = "50s+"
)

// Profile represents a user profile. One row per auth identity, created at
// signup and never hard-deleted.
type Profile struct {
	UID          uuid.UUID   `db:"uid" json:"uid"`
	Email        string      `db:"email" json:"email"`
	PasswordHash string      `db:"password_hash" json:"-"`
	Nickname     string      `db:"nickname" json:"nickname"`
	AgeRange     string      `db:"age_range" json:"age_range"`
	Role         policy.Role `db:"role" json:"role"`
	CreatedAt    time.Time   `db:"created_at" json:"created_at"`
}

// View returns the policy evaluator's slice of this row
func (p *Profile) View() policy.ProfileView {
	return policy.ProfileView{UID: p.UID, Role: p.Role}
}
