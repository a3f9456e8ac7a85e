package match

import (
	"context"

	"github.com/google/uuid"

	"github.com/moim/moim-api/internal/domain/policy"
)

// Notifier pushes match lifecycle events to connected participants
type Notifier interface {
	NotifyMatchEnded(matchID uuid.UUID)
	NotifyMatchBlocked(matchID uuid.UUID)
}

// Service implements match business logic
type Service struct {
	repo     Repository
	notifier Notifier
}

// NewService creates match service. A nil notifier drops the events.
func NewService(repo Repository, notifier Notifier) *Service {
	return &Service{repo: repo, notifier: notifier}
}

// Get loads a match visible to the actor. Non-participants see nothing.
func (s *Service) Get(ctx context.Context, actor *policy.ActorContext, id uuid.UUID) (*Match, error) {
	m, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, ErrNotFound
	}

	if err := policy.CanReadMatch(actor, m.View()); err != nil {
		return nil, ErrNotFound
	}
	return m, nil
}

// ListMine returns the actor's matches, newest first. Blocked matches stay
// in the listing so the client can render the conversation as closed.
func (s *Service) ListMine(ctx context.Context, actor *policy.ActorContext) ([]*Match, error) {
	if actor.IsGuest() {
		return nil, policy.ErrForbidden
	}
	return s.repo.ListByUser(ctx, actor.UserID)
}

// End closes an active match. Either participant may end it; ending an
// already ended or blocked match is a conflict.
func (s *Service) End(ctx context.Context, actor *policy.ActorContext, id uuid.UUID) (*Match, error) {
	m, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, ErrNotFound
	}

	if err := policy.CanEndMatch(actor, m.View()); err != nil {
		return nil, err
	}

	changed, err := s.repo.UpdateStatus(ctx, m.ID, StatusActive, StatusEnded)
	if err != nil {
		return nil, err
	}
	if !changed {
		return nil, ErrAlreadyEnded
	}

	m.Status = StatusEnded
	if s.notifier != nil {
		s.notifier.NotifyMatchEnded(m.ID)
	}
	return m, nil
}

// BlockBetween flips active matches between the pair to blocked. Called by
// the block service so post-block messaging dies with the match status.
// Both sides of each flipped match are told the thread closed.
func (s *Service) BlockBetween(ctx context.Context, a, b uuid.UUID) error {
	ids, err := s.repo.BlockBetween(ctx, a, b)
	if err != nil {
		return err
	}
	if s.notifier != nil {
		for _, id := range ids {
			s.notifier.NotifyMatchBlocked(id)
		}
	}
	return nil
}
