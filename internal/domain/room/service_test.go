package room

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/moim/moim-api/internal/domain/policy"
)

type testRepo struct {
	rooms        map[uuid.UUID]*Room
	participants map[uuid.UUID][]uuid.UUID
}

func newTestRepo() *testRepo {
	return &testRepo{
		rooms:        make(map[uuid.UUID]*Room),
		participants: make(map[uuid.UUID][]uuid.UUID),
	}
}

func (r *testRepo) Create(ctx context.Context, room *Room) error {
	r.rooms[room.ID] = room
	return nil
}

func (r *testRepo) GetByID(ctx context.Context, id uuid.UUID) (*Room, error) {
	room, ok := r.rooms[id]
	if !ok {
		return nil, nil
	}
	copied := *room
	return &copied, nil
}

func (r *testRepo) Update(ctx context.Context, room *Room) error {
	r.rooms[room.ID] = room
	return nil
}

func (r *testRepo) List(ctx context.Context, viewerID uuid.UUID, filter *Filter) ([]*Room, error) {
	var out []*Room
	for _, room := range r.rooms {
		out = append(out, room)
	}
	return out, nil
}

func (r *testRepo) IsMatchParticipant(ctx context.Context, roomID, userID uuid.UUID) (bool, error) {
	for _, uid := range r.participants[roomID] {
		if uid == userID {
			return true, nil
		}
	}
	return false, nil
}

func userActor(id uuid.UUID) *policy.ActorContext {
	return &policy.ActorContext{UserID: id, Role: policy.RoleUser}
}

func activeRoom(host uuid.UUID, visibility Visibility) *Room {
	return &Room{
		ID:                uuid.New(),
		HostUID:           host,
		Title:             "Friday ramen",
		Category:          "food",
		StartAt:           time.Now().Add(24 * time.Hour),
		MaxPeople:         4,
		Visibility:        visibility,
		Status:            StatusActive,
		ParticipantsCount: 1,
	}
}

func TestCreate_HostIsActorAndTakesFirstSeat(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)
	host := uuid.New()

	room, err := svc.Create(context.Background(), userActor(host), &CreateRoomRequest{
		Title:     "Friday ramen",
		Category:  "food",
		PlaceText: "Shinjuku",
		StartAt:   time.Now().Add(24 * time.Hour),
		MaxPeople: 4,
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if room.HostUID != host {
		t.Errorf("host = %s, want actor %s", room.HostUID, host)
	}
	if room.ParticipantsCount != 1 {
		t.Errorf("participants = %d, want 1", room.ParticipantsCount)
	}
	if room.Visibility != VisibilityPublic {
		t.Errorf("visibility = %s, want default public", room.Visibility)
	}
	if room.Status != StatusActive {
		t.Errorf("status = %s, want active", room.Status)
	}
}

func TestCreate_GuestRejected(t *testing.T) {
	svc := NewService(newTestRepo())

	_, err := svc.Create(context.Background(), policy.Guest(), &CreateRoomRequest{})
	if !errors.Is(err, policy.ErrForbidden) {
		t.Fatalf("got %v, want ErrForbidden", err)
	}
}

func TestGet_PrivateRoomHiddenFromStranger(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	host := uuid.New()
	room := activeRoom(host, VisibilityPrivate)
	repo.rooms[room.ID] = room

	_, err := svc.Get(context.Background(), userActor(uuid.New()), room.ID)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("stranger got %v, want ErrNotFound", err)
	}

	if _, err := svc.Get(context.Background(), userActor(host), room.ID); err != nil {
		t.Fatalf("host should see own private room, got %v", err)
	}
}

func TestGet_PrivateRoomVisibleToMatchParticipant(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	host := uuid.New()
	member := uuid.New()
	room := activeRoom(host, VisibilityPrivate)
	repo.rooms[room.ID] = room
	repo.participants[room.ID] = []uuid.UUID{member}

	if _, err := svc.Get(context.Background(), userActor(member), room.ID); err != nil {
		t.Fatalf("participant should see private room, got %v", err)
	}
}

func TestGet_BlockedHostIndistinguishableFromMissing(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	host := uuid.New()
	viewer := uuid.New()
	room := activeRoom(host, VisibilityPublic)
	repo.rooms[room.ID] = room

	actor := &policy.ActorContext{
		UserID:       viewer,
		Role:         policy.RoleUser,
		BlockedPeers: map[uuid.UUID]struct{}{host: {}},
	}

	_, blockedErr := svc.Get(context.Background(), actor, room.ID)
	_, missingErr := svc.Get(context.Background(), actor, uuid.New())
	if !errors.Is(blockedErr, ErrNotFound) || !errors.Is(missingErr, ErrNotFound) {
		t.Fatalf("blocked = %v, missing = %v; both must be ErrNotFound", blockedErr, missingErr)
	}
}

func TestUpdate_NonHostRejected(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	room := activeRoom(uuid.New(), VisibilityPublic)
	repo.rooms[room.ID] = room

	title := "hijacked"
	_, err := svc.Update(context.Background(), userActor(uuid.New()), room.ID, &UpdateRoomRequest{Title: &title})
	if !errors.Is(err, policy.ErrForbidden) {
		t.Fatalf("got %v, want ErrForbidden", err)
	}
}

func TestUpdate_ClosedRoomConflicts(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	host := uuid.New()
	room := activeRoom(host, VisibilityPublic)
	room.Status = StatusCancelled
	repo.rooms[room.ID] = room

	status := string(StatusCompleted)
	_, err := svc.Update(context.Background(), userActor(host), room.ID, &UpdateRoomRequest{Status: &status})
	if !errors.Is(err, policy.ErrConflict) {
		t.Fatalf("got %v, want ErrConflict", err)
	}
}

func TestUpdate_CapacityCannotDropBelowParticipants(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	host := uuid.New()
	room := activeRoom(host, VisibilityPublic)
	room.ParticipantsCount = 3
	repo.rooms[room.ID] = room

	two := 2
	_, err := svc.Update(context.Background(), userActor(host), room.ID, &UpdateRoomRequest{MaxPeople: &two})
	if !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("got %v, want ErrInvalidTransition", err)
	}
}

func TestUpdate_HostCancelsRoom(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	host := uuid.New()
	room := activeRoom(host, VisibilityPublic)
	repo.rooms[room.ID] = room

	status := string(StatusCancelled)
	updated, err := svc.Update(context.Background(), userActor(host), room.ID, &UpdateRoomRequest{Status: &status})
	if err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	if updated.Status != StatusCancelled {
		t.Errorf("status = %s, want cancelled", updated.Status)
	}
}
