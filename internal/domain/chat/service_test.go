package chat

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/moim/moim-api/internal/domain/match"
	"github.com/moim/moim-api/internal/domain/policy"
)

type testRepo struct {
	messages []*Message
}

func (r *testRepo) CreateMessage(ctx context.Context, msg *Message) error {
	r.messages = append(r.messages, msg)
	return nil
}

func (r *testRepo) ListByMatch(ctx context.Context, matchID uuid.UUID, before time.Time, limit int) ([]*Message, error) {
	var out []*Message
	for _, m := range r.messages {
		if m.MatchID == matchID {
			out = append(out, m)
		}
	}
	return out, nil
}

type testMatchSource struct {
	matches map[uuid.UUID]*match.Match
}

func (s *testMatchSource) GetByID(ctx context.Context, id uuid.UUID) (*match.Match, error) {
	m, ok := s.matches[id]
	if !ok {
		return nil, nil
	}
	return m, nil
}

func (s *testMatchSource) ListByUser(ctx context.Context, userID uuid.UUID) ([]*match.Match, error) {
	var out []*match.Match
	for _, m := range s.matches {
		if m.HasParticipant(userID) {
			out = append(out, m)
		}
	}
	return out, nil
}

type testBroadcaster struct {
	events []*WSEvent
}

func (b *testBroadcaster) BroadcastToMatch(matchID uuid.UUID, event *WSEvent) {
	b.events = append(b.events, event)
}

func userActor(id uuid.UUID) *policy.ActorContext {
	return &policy.ActorContext{UserID: id, Role: policy.RoleUser}
}

func seedMatch(src *testMatchSource, status match.Status) *match.Match {
	m := &match.Match{
		ID:      uuid.New(),
		RoomID:  uuid.New(),
		User1ID: uuid.New(),
		User2ID: uuid.New(),
		Status:  status,
	}
	src.matches[m.ID] = m
	return m
}

func newFixture() (*Service, *testRepo, *testMatchSource, *testBroadcaster) {
	repo := &testRepo{}
	src := &testMatchSource{matches: make(map[uuid.UUID]*match.Match)}
	hub := &testBroadcaster{}
	return NewService(repo, src, hub), repo, src, hub
}

func TestSend_ParticipantMessageIsStoredAndBroadcast(t *testing.T) {
	svc, repo, src, hub := newFixture()
	m := seedMatch(src, match.StatusActive)

	msg, err := svc.Send(context.Background(), userActor(m.User1ID), m.ID, &SendMessageRequest{Content: "hey"})
	if err != nil {
		t.Fatalf("send failed: %v", err)
	}

	if len(repo.messages) != 1 || repo.messages[0].Content != "hey" {
		t.Fatalf("message not stored: %+v", repo.messages)
	}
	if len(hub.events) != 1 || hub.events[0].Type != EventNewMessage {
		t.Fatalf("expected one new_message event, got %+v", hub.events)
	}
	if hub.events[0].Message.ID != msg.ID {
		t.Error("broadcast event must carry the stored message")
	}
}

func TestSend_NonParticipantForbidden(t *testing.T) {
	svc, _, src, _ := newFixture()
	m := seedMatch(src, match.StatusActive)

	_, err := svc.Send(context.Background(), userActor(uuid.New()), m.ID, &SendMessageRequest{Content: "hi"})
	if !errors.Is(err, policy.ErrForbidden) {
		t.Fatalf("got %v, want ErrForbidden", err)
	}
}

func TestSend_ClosedMatchConflicts(t *testing.T) {
	svc, repo, src, hub := newFixture()

	// Blocking flips the match status, which is what shuts the thread down
	for _, status := range []match.Status{match.StatusEnded, match.StatusBlocked} {
		m := seedMatch(src, status)
		_, err := svc.Send(context.Background(), userActor(m.User1ID), m.ID, &SendMessageRequest{Content: "hi"})
		if !errors.Is(err, policy.ErrConflict) {
			t.Fatalf("status %s: got %v, want ErrConflict", status, err)
		}
	}

	if len(repo.messages) != 0 || len(hub.events) != 0 {
		t.Fatal("closed matches must store and broadcast nothing")
	}
}

func TestList_NonParticipantSeesMissingMatch(t *testing.T) {
	svc, _, src, _ := newFixture()
	m := seedMatch(src, match.StatusActive)

	_, err := svc.List(context.Background(), userActor(uuid.New()), m.ID, time.Time{}, 50)
	if !errors.Is(err, match.ErrNotFound) {
		t.Fatalf("got %v, want match.ErrNotFound", err)
	}
}

func TestActiveMatchIDs_SkipsClosedMatches(t *testing.T) {
	svc, _, src, _ := newFixture()

	user := uuid.New()
	active := &match.Match{ID: uuid.New(), User1ID: user, User2ID: uuid.New(), Status: match.StatusActive}
	ended := &match.Match{ID: uuid.New(), User1ID: user, User2ID: uuid.New(), Status: match.StatusEnded}
	src.matches[active.ID] = active
	src.matches[ended.ID] = ended

	ids, err := svc.ActiveMatchIDs(context.Background(), user)
	if err != nil {
		t.Fatalf("ActiveMatchIDs: %v", err)
	}
	if len(ids) != 1 || ids[0] != active.ID {
		t.Fatalf("ids = %v, want only %s", ids, active.ID)
	}
}
