package profile

import (
	"context"

	"github.com/google/uuid"

	"github.com/moim/moim-api/internal/domain/policy"
)

// Service handles profile business logic
type Service struct {
	repo Repository
}

// NewService creates profile service
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Get returns a profile visible to the actor. A hidden profile is
// indistinguishable from a missing one.
func (s *Service) Get(ctx context.Context, actor *policy.ActorContext, uid uuid.UUID) (*Profile, error) {
	p, err := s.repo.GetByUID(ctx, uid)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrNotFound
	}
	if err := policy.CanReadProfile(actor, p.View()); err != nil {
		return nil, ErrNotFound
	}
	return p, nil
}

// Update mutates a profile. Nickname and age range are owner-only; a role
// change is evaluated separately so an admin can promote another user while
// the role guard still blocks self-promotion and non-admin promotion.
func (s *Service) Update(ctx context.Context, actor *policy.ActorContext, uid uuid.UUID, req *UpdateProfileRequest) (*Profile, error) {
	target, err := s.repo.GetByUID(ctx, uid)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, ErrNotFound
	}

	roleChange := req.Role != nil && policy.Role(*req.Role) != target.Role
	fieldChange := req.Nickname != nil || req.AgeRange != nil

	if roleChange {
		if err := policy.CanUpdateProfile(actor, target.View(), true); err != nil {
			return nil, err
		}
	}

	// Everything but a pure role change is an owner-only edit. An empty
	// patch (or a role echoing the current value) goes through the same
	// check, so a stranger can never reach the row through a no-op write.
	if fieldChange || !roleChange {
		if err := policy.CanUpdateProfile(actor, target.View(), false); err != nil {
			return nil, err
		}
	}

	if !roleChange && !fieldChange {
		return target, nil
	}

	if roleChange {
		target.Role = policy.Role(*req.Role)
	}
	if req.Nickname != nil {
		target.Nickname = *req.Nickname
	}
	if req.AgeRange != nil {
		target.AgeRange = *req.AgeRange
	}

	if err := s.repo.Update(ctx, target); err != nil {
		return nil, err
	}
	return target, nil
}
