package policy

import (
	"github.com/google/uuid"
)

// Role represents the caller's role within the platform
type Role string

const (
	RoleGuest Role = "guest"
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// RoleFromString maps a stored role value to a Role. Unknown values
// downgrade to user, never up.
func RoleFromString(s string) Role {
	switch s {
	case string(RoleAdmin):
		return RoleAdmin
	case string(RoleUser):
		return RoleUser
	default:
		return RoleUser
	}
}

// ActorContext is the immutable per-request identity every policy decision
// runs against. BlockedPeers is the symmetric closure of block edges in
// either direction, computed once when the context is resolved.
type ActorContext struct {
	UserID       uuid.UUID // uuid.Nil for guests
	Role         Role
	BlockedPeers map[uuid.UUID]struct{}
}

// Guest returns the anonymous actor context
func Guest() *ActorContext {
	return &ActorContext{UserID: uuid.Nil, Role: RoleGuest}
}

// IsGuest reports whether the actor is unauthenticated
func (a *ActorContext) IsGuest() bool {
	return a.UserID == uuid.Nil
}

// IsAdmin reports whether the actor holds the admin role
func (a *ActorContext) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// Blocked reports whether a block edge exists between the actor and the
// given user, in either direction.
func (a *ActorContext) Blocked(userID uuid.UUID) bool {
	if a.BlockedPeers == nil {
		return false
	}
	_, ok := a.BlockedPeers[userID]
	return ok
}
