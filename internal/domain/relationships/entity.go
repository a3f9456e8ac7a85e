package relationships

import (
	"time"

	"github.com/google/uuid"
)

// BlockRelation represents a directed block edge. Only directed edges are
// stored; the mutual-invisibility effect comes from querying the closure in
// both directions, so symmetry holds by construction.
type BlockRelation struct {
	BlockerID uuid.UUID `db:"blocker_id" json:"blocker_id"`
	BlockedID uuid.UUID `db:"blocked_id" json:"blocked_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
