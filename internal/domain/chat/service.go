package chat

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/moim/moim-api/internal/domain/match"
	"github.com/moim/moim-api/internal/domain/policy"
)

// MatchSource is the slice of the match domain messaging needs
type MatchSource interface {
	GetByID(ctx context.Context, id uuid.UUID) (*match.Match, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*match.Match, error)
}

// Broadcaster pushes events to connected participants
type Broadcaster interface {
	BroadcastToMatch(matchID uuid.UUID, event *WSEvent)
}

// Service implements messaging over matches
type Service struct {
	repo    Repository
	matches MatchSource
	hub     Broadcaster
}

// NewService creates chat service
func NewService(repo Repository, matches MatchSource, hub Broadcaster) *Service {
	return &Service{repo: repo, matches: matches, hub: hub}
}

// Send appends a message to an active match thread and fans it out to
// both participants. Ended or blocked matches refuse new messages.
func (s *Service) Send(ctx context.Context, actor *policy.ActorContext, matchID uuid.UUID, req *SendMessageRequest) (*Message, error) {
	m, err := s.matches.GetByID(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, match.ErrNotFound
	}

	if err := policy.CanSendMessage(actor, m.View()); err != nil {
		return nil, err
	}

	msg := &Message{
		ID:        uuid.New(),
		MatchID:   matchID,
		SenderID:  actor.UserID,
		Content:   req.Content,
		CreatedAt: time.Now(),
	}
	if err := s.repo.CreateMessage(ctx, msg); err != nil {
		return nil, err
	}

	if s.hub != nil {
		s.hub.BroadcastToMatch(matchID, &WSEvent{
			Type:     EventNewMessage,
			MatchID:  matchID,
			SenderID: actor.UserID,
			Message:  msg,
		})
	}

	return msg, nil
}

// List pages a match thread backwards from the cursor, participants only.
// Non-participants see the match as missing.
func (s *Service) List(ctx context.Context, actor *policy.ActorContext, matchID uuid.UUID, before time.Time, limit int) ([]*Message, error) {
	m, err := s.matches.GetByID(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, match.ErrNotFound
	}

	if err := policy.CanReadMessages(actor, m.View()); err != nil {
		if errors.Is(err, policy.ErrHidden) {
			return nil, match.ErrNotFound
		}
		return nil, err
	}

	return s.repo.ListByMatch(ctx, matchID, before, limit)
}

// ActiveMatchIDs returns the actor's match IDs for WebSocket subscription
func (s *Service) ActiveMatchIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	matches, err := s.matches.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(matches))
	for _, m := range matches {
		if m.Status == match.StatusActive {
			ids = append(ids, m.ID)
		}
	}
	return ids, nil
}
