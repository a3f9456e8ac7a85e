package policy

import (
	"github.com/google/uuid"
)

// The evaluator is a set of pure decision functions, one per (entity,
// operation) pair. They never touch storage: callers load the target rows
// and hand over narrow views. A nil return means allow.

// Status values the evaluator cares about. Domain packages own the full
// enums; only the strings checked here are repeated.
const (
	roomVisibilityPublic = "public"
	roomStatusActive     = "active"
	requestStatusPending = "pending"
	matchStatusActive    = "active"
)

// ProfileView is the slice of a profile row policy decisions need
type ProfileView struct {
	UID  uuid.UUID
	Role Role
}

// RoomView is the slice of a room row policy decisions need
type RoomView struct {
	ID         uuid.UUID
	HostUID    uuid.UUID
	Visibility string
	Status     string
}

// RequestView is the slice of a join request policy decisions need
type RequestView struct {
	ID     uuid.UUID
	RoomID uuid.UUID
	UserID uuid.UUID
	Status string
}

// MatchView is the slice of a match row policy decisions need
type MatchView struct {
	ID      uuid.UUID
	User1ID uuid.UUID
	User2ID uuid.UUID
	Status  string
}

// ReportView is the slice of a report row policy decisions need
type ReportView struct {
	ID         uuid.UUID
	ReporterID uuid.UUID
}

// HasParticipant reports whether the user is one of the match's two sides
func (m MatchView) HasParticipant(userID uuid.UUID) bool {
	return m.User1ID == userID || m.User2ID == userID
}

// CanReadProfile allows self always, others only without a block edge
func CanReadProfile(actor *ActorContext, target ProfileView) error {
	if actor.UserID == target.UID {
		return nil
	}
	if actor.Blocked(target.UID) {
		return ErrHidden
	}
	return nil
}

// CanUpdateProfile allows the owner to mutate their own row. The role field
// is frozen: changing it requires an admin acting on someone other than
// themselves, which blocks both self-promotion and promotion-by-non-admin.
func CanUpdateProfile(actor *ActorContext, target ProfileView, roleChange bool) error {
	if actor.IsGuest() {
		return ErrForbidden
	}
	if roleChange {
		if !actor.IsAdmin() || actor.UserID == target.UID {
			return ErrForbidden
		}
		return nil
	}
	if actor.UserID != target.UID {
		return ErrForbidden
	}
	return nil
}

// CanCreateRoom requires the draft's host to be the actor itself
func CanCreateRoom(actor *ActorContext, hostUID uuid.UUID) error {
	if actor.IsGuest() || actor.UserID != hostUID {
		return ErrForbidden
	}
	return nil
}

// CanReadRoom decides room visibility. Public rooms are open to anyone,
// guests included, unless a block edge hides the host. Private rooms are
// visible only to the host and to accepted match participants.
func CanReadRoom(actor *ActorContext, room RoomView, isParticipant bool) error {
	if actor.Blocked(room.HostUID) {
		return ErrHidden
	}
	if room.Visibility == roomVisibilityPublic {
		return nil
	}
	if actor.UserID == room.HostUID || isParticipant {
		return nil
	}
	return ErrHidden
}

// CanUpdateRoom allows the host to mutate an active room
func CanUpdateRoom(actor *ActorContext, room RoomView) error {
	if actor.IsGuest() || actor.UserID != room.HostUID {
		return ErrForbidden
	}
	if room.Status != roomStatusActive {
		return ErrConflict
	}
	return nil
}

// CanCreateRequest validates the identity half of a join request. The
// capacity and duplicate rules are business rules owned by the request
// lifecycle manager, layered on top of this decision.
func CanCreateRequest(actor *ActorContext, room RoomView) error {
	if actor.IsGuest() {
		return ErrForbidden
	}
	if actor.UserID == room.HostUID {
		return ErrInvalid
	}
	if actor.Blocked(room.HostUID) {
		return ErrHidden
	}
	if room.Status != roomStatusActive {
		return ErrConflict
	}
	return nil
}

// CanReadRequest allows the requester and the room's host
func CanReadRequest(actor *ActorContext, req RequestView, room RoomView) error {
	if actor.UserID == req.UserID || actor.UserID == room.HostUID {
		return nil
	}
	return ErrHidden
}

// CanDecideRequest allows only the room's host to transition a request,
// and only while the room is active. Terminal-state re-entry is the
// lifecycle manager's conflict, not a policy denial.
func CanDecideRequest(actor *ActorContext, req RequestView, room RoomView) error {
	if actor.IsGuest() || actor.UserID != room.HostUID {
		return ErrForbidden
	}
	if room.Status != roomStatusActive {
		return ErrConflict
	}
	return nil
}

// CanReadMatch allows the match's two participants only
func CanReadMatch(actor *ActorContext, m MatchView) error {
	if m.HasParticipant(actor.UserID) && !actor.IsGuest() {
		return nil
	}
	return ErrHidden
}

// CanEndMatch allows either participant to end the match
func CanEndMatch(actor *ActorContext, m MatchView) error {
	if actor.IsGuest() || !m.HasParticipant(actor.UserID) {
		return ErrForbidden
	}
	return nil
}

// CanSendMessage requires the sender to be a participant of an active match
func CanSendMessage(actor *ActorContext, m MatchView) error {
	if actor.IsGuest() || !m.HasParticipant(actor.UserID) {
		return ErrForbidden
	}
	if m.Status != matchStatusActive {
		return ErrConflict
	}
	return nil
}

// CanReadMessages allows the match's participants only
func CanReadMessages(actor *ActorContext, m MatchView) error {
	if !actor.IsGuest() && m.HasParticipant(actor.UserID) {
		return nil
	}
	return ErrHidden
}

// CanBlock requires an authenticated actor blocking someone else
func CanBlock(actor *ActorContext, targetID uuid.UUID) error {
	if actor.IsGuest() {
		return ErrForbidden
	}
	if actor.UserID == targetID {
		return ErrInvalid
	}
	return nil
}

// CanCreateReport requires the reporter to be the actor itself
func CanCreateReport(actor *ActorContext, reporterID uuid.UUID) error {
	if actor.IsGuest() || actor.UserID != reporterID {
		return ErrForbidden
	}
	return nil
}

// CanReadReport allows the reporter and admins
func CanReadReport(actor *ActorContext, rep ReportView) error {
	if actor.IsAdmin() || (!actor.IsGuest() && actor.UserID == rep.ReporterID) {
		return nil
	}
	return ErrHidden
}

// CanUpdateReport allows admins only (status updates)
func CanUpdateReport(actor *ActorContext) error {
	if !actor.IsAdmin() {
		return ErrForbidden
	}
	return nil
}
