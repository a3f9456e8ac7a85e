package relationships

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/moim/moim-api/internal/domain/policy"
)

// MatchBlocker flips active matches between two users to blocked, so the
// message-send policy shuts the chat without consulting block edges on
// every insert.
type MatchBlocker interface {
	BlockBetween(ctx context.Context, a, b uuid.UUID) error
}

// ClosureInvalidator drops a user's cached block closure
type ClosureInvalidator interface {
	Invalidate(ctx context.Context, userID uuid.UUID)
}

// Service handles block business logic
type Service struct {
	repo        Repository
	matches     MatchBlocker
	invalidator ClosureInvalidator
}

// NewService creates block service
func NewService(repo Repository, matches MatchBlocker, invalidator ClosureInvalidator) *Service {
	return &Service{repo: repo, matches: matches, invalidator: invalidator}
}

// Block creates a directed block edge. Existing matches between the pair
// transition to blocked, and both sides' cached closures are dropped.
func (s *Service) Block(ctx context.Context, actor *policy.ActorContext, targetID uuid.UUID) error {
	if err := policy.CanBlock(actor, targetID); err != nil {
		return err
	}

	block := &BlockRelation{
		BlockerID: actor.UserID,
		BlockedID: targetID,
		CreatedAt: time.Now(),
	}
	if err := s.repo.CreateBlock(ctx, block); err != nil {
		return err
	}

	if s.matches != nil {
		if err := s.matches.BlockBetween(ctx, actor.UserID, targetID); err != nil {
			return err
		}
	}

	s.invalidate(ctx, actor.UserID, targetID)
	return nil
}

// Unblock removes the actor's directed edge. The reverse edge, if any,
// keeps the pair mutually hidden. Matches already blocked stay blocked.
func (s *Service) Unblock(ctx context.Context, actor *policy.ActorContext, targetID uuid.UUID) error {
	if err := policy.CanBlock(actor, targetID); err != nil {
		return err
	}

	if err := s.repo.DeleteBlock(ctx, actor.UserID, targetID); err != nil {
		return err
	}

	s.invalidate(ctx, actor.UserID, targetID)
	return nil
}

// ListMine returns all users the actor has blocked
func (s *Service) ListMine(ctx context.Context, actor *policy.ActorContext) ([]*BlockRelation, error) {
	if actor.IsGuest() {
		return nil, policy.ErrForbidden
	}
	return s.repo.ListBlocks(ctx, actor.UserID)
}

// IsHidden reports whether a block edge exists between two users in either
// direction.
func (s *Service) IsHidden(ctx context.Context, viewer, author uuid.UUID) (bool, error) {
	return s.repo.HasBlockEither(ctx, viewer, author)
}

func (s *Service) invalidate(ctx context.Context, a, b uuid.UUID) {
	if s.invalidator == nil {
		return
	}
	s.invalidator.Invalidate(ctx, a)
	s.invalidator.Invalidate(ctx, b)
}
