package room

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/moim/moim-api/internal/domain/policy"
)

// Service implements room business logic
type Service struct {
	repo Repository
}

// NewService creates room service
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create opens a new room hosted by the actor. The host takes the first
// seat, so participants_count starts at one.
func (s *Service) Create(ctx context.Context, actor *policy.ActorContext, req *CreateRoomRequest) (*Room, error) {
	if err := policy.CanCreateRoom(actor, actor.UserID); err != nil {
		return nil, err
	}

	visibility := VisibilityPublic
	if req.Visibility != "" {
		visibility = Visibility(req.Visibility)
	}

	room := &Room{
		ID:                uuid.New(),
		HostUID:           actor.UserID,
		Title:             req.Title,
		Category:          req.Category,
		Lat:               req.Lat,
		Lng:               req.Lng,
		PlaceText:         req.PlaceText,
		StartAt:           req.StartAt,
		MaxPeople:         req.MaxPeople,
		Fee:               req.Fee,
		Visibility:        visibility,
		Status:            StatusActive,
		ParticipantsCount: 1,
		CreatedAt:         time.Now(),
	}

	if err := s.repo.Create(ctx, room); err != nil {
		return nil, err
	}
	return room, nil
}

// Get loads a room the actor may read. A room hidden by visibility or a
// block edge is reported exactly like a missing one.
func (s *Service) Get(ctx context.Context, actor *policy.ActorContext, id uuid.UUID) (*Room, error) {
	room, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if room == nil {
		return nil, ErrNotFound
	}

	isParticipant := false
	if room.Visibility == VisibilityPrivate && !actor.IsGuest() && actor.UserID != room.HostUID {
		isParticipant, err = s.repo.IsMatchParticipant(ctx, room.ID, actor.UserID)
		if err != nil {
			return nil, err
		}
	}

	if err := policy.CanReadRoom(actor, room.View(), isParticipant); err != nil {
		if errors.Is(err, policy.ErrHidden) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return room, nil
}

// List returns rooms visible to the actor, filtered and block-propagated
// inside the repository query.
func (s *Service) List(ctx context.Context, actor *policy.ActorContext, filter *Filter) ([]*Room, error) {
	return s.repo.List(ctx, actor.UserID, filter)
}

// Update mutates a room's fields or transitions its status. Only the host
// may update, and only while the room is active; re-closing a cancelled or
// completed room is a conflict.
func (s *Service) Update(ctx context.Context, actor *policy.ActorContext, id uuid.UUID, req *UpdateRoomRequest) (*Room, error) {
	room, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if room == nil {
		return nil, ErrNotFound
	}

	if err := policy.CanUpdateRoom(actor, room.View()); err != nil {
		return nil, err
	}

	if req.Title != nil {
		room.Title = *req.Title
	}
	if req.Category != nil {
		room.Category = *req.Category
	}
	if req.Lat != nil {
		room.Lat = *req.Lat
	}
	if req.Lng != nil {
		room.Lng = *req.Lng
	}
	if req.PlaceText != nil {
		room.PlaceText = *req.PlaceText
	}
	if req.StartAt != nil {
		room.StartAt = *req.StartAt
	}
	if req.MaxPeople != nil {
		// Capacity may not shrink below the seats already taken
		if *req.MaxPeople < room.ParticipantsCount {
			return nil, ErrInvalidTransition
		}
		room.MaxPeople = *req.MaxPeople
	}
	if req.Fee != nil {
		room.Fee = *req.Fee
	}
	if req.Status != nil {
		room.Status = Status(*req.Status)
	}

	if err := s.repo.Update(ctx, room); err != nil {
		return nil, err
	}
	return room, nil
}
