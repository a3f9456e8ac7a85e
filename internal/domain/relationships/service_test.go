package relationships

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/moim/moim-api/internal/domain/policy"
)

type edge struct{ blocker, blocked uuid.UUID }

type testBlockRepo struct {
	edges map[edge]*BlockRelation
}

func newTestBlockRepo() *testBlockRepo {
	return &testBlockRepo{edges: make(map[edge]*BlockRelation)}
}

func (r *testBlockRepo) CreateBlock(ctx context.Context, b *BlockRelation) error {
	r.edges[edge{b.BlockerID, b.BlockedID}] = b
	return nil
}

func (r *testBlockRepo) DeleteBlock(ctx context.Context, blockerID, blockedID uuid.UUID) error {
	delete(r.edges, edge{blockerID, blockedID})
	return nil
}

func (r *testBlockRepo) ListBlocks(ctx context.Context, blockerID uuid.UUID) ([]*BlockRelation, error) {
	var out []*BlockRelation
	for _, b := range r.edges {
		if b.BlockerID == blockerID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *testBlockRepo) ListPeerIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	seen := make(map[uuid.UUID]struct{})
	var out []uuid.UUID
	for e := range r.edges {
		var peer uuid.UUID
		switch userID {
		case e.blocker:
			peer = e.blocked
		case e.blocked:
			peer = e.blocker
		default:
			continue
		}
		if _, ok := seen[peer]; !ok {
			seen[peer] = struct{}{}
			out = append(out, peer)
		}
	}
	return out, nil
}

func (r *testBlockRepo) HasBlockEither(ctx context.Context, a, b uuid.UUID) (bool, error) {
	_, fwd := r.edges[edge{a, b}]
	_, rev := r.edges[edge{b, a}]
	return fwd || rev, nil
}

type testMatchBlocker struct {
	calls [][2]uuid.UUID
}

func (m *testMatchBlocker) BlockBetween(ctx context.Context, a, b uuid.UUID) error {
	m.calls = append(m.calls, [2]uuid.UUID{a, b})
	return nil
}

type testInvalidator struct {
	invalidated []uuid.UUID
}

func (i *testInvalidator) Invalidate(ctx context.Context, userID uuid.UUID) {
	i.invalidated = append(i.invalidated, userID)
}

func userActor(id uuid.UUID) *policy.ActorContext {
	return &policy.ActorContext{UserID: id, Role: policy.RoleUser}
}

func TestBlock_SymmetricClosure(t *testing.T) {
	repo := newTestBlockRepo()
	matches := &testMatchBlocker{}
	inv := &testInvalidator{}
	svc := NewService(repo, matches, inv)

	x := uuid.New()
	y := uuid.New()

	if err := svc.Block(context.Background(), userActor(x), y); err != nil {
		t.Fatalf("block failed: %v", err)
	}

	// One directed edge hides both directions
	for _, pair := range [][2]uuid.UUID{{x, y}, {y, x}} {
		hidden, err := svc.IsHidden(context.Background(), pair[0], pair[1])
		if err != nil {
			t.Fatalf("IsHidden: %v", err)
		}
		if !hidden {
			t.Fatalf("expected %s and %s mutually hidden", pair[0], pair[1])
		}
	}

	// The closure contains the peer for both sides
	for _, pair := range [][2]uuid.UUID{{x, y}, {y, x}} {
		peers, _ := repo.ListPeerIDs(context.Background(), pair[0])
		if len(peers) != 1 || peers[0] != pair[1] {
			t.Fatalf("closure for %s = %v, want [%s]", pair[0], peers, pair[1])
		}
	}
}

func TestBlock_FlipsMatchesAndInvalidatesCache(t *testing.T) {
	repo := newTestBlockRepo()
	matches := &testMatchBlocker{}
	inv := &testInvalidator{}
	svc := NewService(repo, matches, inv)

	x := uuid.New()
	y := uuid.New()

	if err := svc.Block(context.Background(), userActor(x), y); err != nil {
		t.Fatalf("block failed: %v", err)
	}

	if len(matches.calls) != 1 || matches.calls[0] != [2]uuid.UUID{x, y} {
		t.Fatalf("expected match block between %s and %s, got %v", x, y, matches.calls)
	}
	if len(inv.invalidated) != 2 {
		t.Fatalf("expected both closures invalidated, got %v", inv.invalidated)
	}
}

func TestBlock_SelfRejected(t *testing.T) {
	svc := NewService(newTestBlockRepo(), nil, nil)
	x := uuid.New()

	err := svc.Block(context.Background(), userActor(x), x)
	if !errors.Is(err, policy.ErrInvalid) {
		t.Fatalf("got %v, want ErrInvalid", err)
	}
}

func TestUnblock_ReverseEdgeStillHides(t *testing.T) {
	repo := newTestBlockRepo()
	svc := NewService(repo, nil, nil)

	x := uuid.New()
	y := uuid.New()

	if err := svc.Block(context.Background(), userActor(x), y); err != nil {
		t.Fatalf("block x->y: %v", err)
	}
	if err := svc.Block(context.Background(), userActor(y), x); err != nil {
		t.Fatalf("block y->x: %v", err)
	}

	if err := svc.Unblock(context.Background(), userActor(x), y); err != nil {
		t.Fatalf("unblock: %v", err)
	}

	hidden, _ := svc.IsHidden(context.Background(), x, y)
	if !hidden {
		t.Fatal("reverse edge should keep the pair hidden")
	}
}
