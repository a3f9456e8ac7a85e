package request

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/moim/moim-api/internal/domain/policy"
	"github.com/moim/moim-api/internal/domain/room"
)

// RoomSource is the slice of the room domain the lifecycle manager needs
type RoomSource interface {
	GetByID(ctx context.Context, id uuid.UUID) (*room.Room, error)
}

// Service implements the join request lifecycle: create while pending,
// then exactly one terminal transition decided by the host.
type Service struct {
	repo  Repository
	rooms RoomSource
}

// NewService creates request service
func NewService(repo Repository, rooms RoomSource) *Service {
	return &Service{repo: repo, rooms: rooms}
}

// Create files a pending request against a room. Identity rules (guests,
// hosts requesting their own room, blocked pairs) come from the policy
// evaluator; capacity and duplicates are checked here. The capacity check
// is advisory only, the accept transaction re-checks under lock.
func (s *Service) Create(ctx context.Context, actor *policy.ActorContext, roomID uuid.UUID, dto *CreateRequestRequest) (*Request, error) {
	target, err := s.rooms.GetByID(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, room.ErrNotFound
	}

	if err := policy.CanCreateRequest(actor, target.View()); err != nil {
		if errors.Is(err, policy.ErrHidden) {
			return nil, room.ErrNotFound
		}
		return nil, err
	}

	if target.IsFull() {
		return nil, ErrRoomFull
	}

	open, err := s.repo.HasOpenRequest(ctx, roomID, actor.UserID)
	if err != nil {
		return nil, err
	}
	if open {
		return nil, ErrDuplicateRequest
	}

	req := &Request{
		ID:        uuid.New(),
		RoomID:    roomID,
		UserID:    actor.UserID,
		Status:    StatusPending,
		CreatedAt: time.Now(),
	}
	if dto != nil {
		req.Message = dto.Message
	}
	if err := s.repo.Create(ctx, req); err != nil {
		return nil, err
	}
	return req, nil
}

// Get loads a request visible to the actor: the requester or the room host
func (s *Service) Get(ctx context.Context, actor *policy.ActorContext, id uuid.UUID) (*Request, error) {
	req, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, ErrNotFound
	}

	target, err := s.rooms.GetByID(ctx, req.RoomID)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, ErrNotFound
	}

	if err := policy.CanReadRequest(actor, req.View(), target.View()); err != nil {
		return nil, ErrNotFound
	}
	return req, nil
}

// Decide resolves a pending request. Accepting runs the seat-taking
// transaction and returns the match it created; rejecting records the
// optional reason. Either way the transition happens at most once.
func (s *Service) Decide(ctx context.Context, actor *policy.ActorContext, id uuid.UUID, dto *DecideRequest) (*DecisionResponse, error) {
	req, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, ErrNotFound
	}

	target, err := s.rooms.GetByID(ctx, req.RoomID)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, ErrNotFound
	}

	if err := policy.CanDecideRequest(actor, req.View(), target.View()); err != nil {
		if errors.Is(err, policy.ErrConflict) {
			return nil, ErrRoomClosed
		}
		return nil, err
	}

	if !req.IsPending() {
		return nil, ErrAlreadyDecided
	}

	now := time.Now()
	switch Status(dto.Status) {
	case StatusAccepted:
		matchID, err := s.repo.Accept(ctx, req)
		if err != nil {
			return nil, err
		}
		req.Status = StatusAccepted
		req.DecidedAt = &now
		return &DecisionResponse{Request: req, MatchID: &matchID}, nil

	case StatusRejected:
		if err := s.repo.Reject(ctx, req.ID, dto.Reason); err != nil {
			return nil, err
		}
		req.Status = StatusRejected
		req.RejectReason = dto.Reason
		req.DecidedAt = &now
		return &DecisionResponse{Request: req}, nil

	default:
		return nil, policy.ErrInvalid
	}
}

// ListForRoom returns a room's requests. The host sees every request, a
// requester sees only their own, anyone else sees an empty list.
func (s *Service) ListForRoom(ctx context.Context, actor *policy.ActorContext, roomID uuid.UUID) ([]*Request, error) {
	target, err := s.rooms.GetByID(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, room.ErrNotFound
	}

	if actor.IsGuest() {
		return nil, policy.ErrForbidden
	}

	reqs, err := s.repo.ListByRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if actor.UserID == target.HostUID {
		return reqs, nil
	}

	own := make([]*Request, 0, 1)
	for _, req := range reqs {
		if req.UserID == actor.UserID {
			own = append(own, req)
		}
	}
	return own, nil
}

// ListMine returns the actor's own requests, newest first
func (s *Service) ListMine(ctx context.Context, actor *policy.ActorContext) ([]*Request, error) {
	if actor.IsGuest() {
		return nil, policy.ErrForbidden
	}
	return s.repo.ListByUser(ctx, actor.UserID)
}
