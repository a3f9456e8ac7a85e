package profile

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/moim/moim-api/internal/domain/policy"
)

type testProfileRepo struct {
	profiles map[uuid.UUID]*Profile
	updated  *Profile
}

func newTestProfileRepo(profiles ...*Profile) *testProfileRepo {
	m := make(map[uuid.UUID]*Profile)
	for _, p := range profiles {
		m[p.UID] = p
	}
	return &testProfileRepo{profiles: m}
}

func (r *testProfileRepo) Create(ctx context.Context, p *Profile) error {
	r.profiles[p.UID] = p
	return nil
}

func (r *testProfileRepo) GetByUID(ctx context.Context, uid uuid.UUID) (*Profile, error) {
	return r.profiles[uid], nil
}

func (r *testProfileRepo) GetByEmail(ctx context.Context, email string) (*Profile, error) {
	for _, p := range r.profiles {
		if p.Email == email {
			return p, nil
		}
	}
	return nil, nil
}

func (r *testProfileRepo) Update(ctx context.Context, p *Profile) error {
	r.profiles[p.UID] = p
	r.updated = p
	return nil
}

func newProfile(role policy.Role) *Profile {
	return &Profile{
		UID:       uuid.New(),
		Email:     uuid.New().String() + "@example.com",
		Nickname:  "tester",
		AgeRange:  AgeRange20s,
		Role:      role,
		CreatedAt: time.Now(),
	}
}

func actor(p *Profile, blocked ...uuid.UUID) *policy.ActorContext {
	peers := make(map[uuid.UUID]struct{})
	for _, b := range blocked {
		peers[b] = struct{}{}
	}
	return &policy.ActorContext{UserID: p.UID, Role: p.Role, BlockedPeers: peers}
}

func strPtr(s string) *string { return &s }

func TestUpdate_SelfPromotionRejected(t *testing.T) {
	user := newProfile(policy.RoleUser)
	repo := newTestProfileRepo(user)
	svc := NewService(repo)

	_, err := svc.Update(context.Background(), actor(user), user.UID, &UpdateProfileRequest{
		Role: strPtr("admin"),
	})
	if !errors.Is(err, policy.ErrForbidden) {
		t.Fatalf("got %v, want ErrForbidden", err)
	}
	if repo.updated != nil {
		t.Fatal("repository update should not have been called")
	}
}

func TestUpdate_NonAdminPromotionRejected(t *testing.T) {
	user := newProfile(policy.RoleUser)
	target := newProfile(policy.RoleUser)
	repo := newTestProfileRepo(user, target)
	svc := NewService(repo)

	_, err := svc.Update(context.Background(), actor(user), target.UID, &UpdateProfileRequest{
		Role: strPtr("admin"),
	})
	if !errors.Is(err, policy.ErrForbidden) {
		t.Fatalf("got %v, want ErrForbidden", err)
	}
}

func TestUpdate_AdminPromotesOther(t *testing.T) {
	admin := newProfile(policy.RoleAdmin)
	target := newProfile(policy.RoleUser)
	repo := newTestProfileRepo(admin, target)
	svc := NewService(repo)

	updated, err := svc.Update(context.Background(), actor(admin), target.UID, &UpdateProfileRequest{
		Role: strPtr("admin"),
	})
	if err != nil {
		t.Fatalf("admin promotion failed: %v", err)
	}
	if updated.Role != policy.RoleAdmin {
		t.Fatalf("role = %s, want admin", updated.Role)
	}
}

func TestUpdate_AdminCannotChangeOwnRole(t *testing.T) {
	admin := newProfile(policy.RoleAdmin)
	repo := newTestProfileRepo(admin)
	svc := NewService(repo)

	_, err := svc.Update(context.Background(), actor(admin), admin.UID, &UpdateProfileRequest{
		Role: strPtr("user"),
	})
	if !errors.Is(err, policy.ErrForbidden) {
		t.Fatalf("got %v, want ErrForbidden", err)
	}
}

func TestUpdate_OwnerEditsOwnFields(t *testing.T) {
	user := newProfile(policy.RoleUser)
	repo := newTestProfileRepo(user)
	svc := NewService(repo)

	updated, err := svc.Update(context.Background(), actor(user), user.UID, &UpdateProfileRequest{
		Nickname: strPtr("renamed"),
		AgeRange: strPtr(AgeRange30s),
	})
	if err != nil {
		t.Fatalf("owner update failed: %v", err)
	}
	if updated.Nickname != "renamed" || updated.AgeRange != AgeRange30s {
		t.Fatalf("fields not applied: %+v", updated)
	}
}

func TestUpdate_NonOwnerEditRejected(t *testing.T) {
	user := newProfile(policy.RoleUser)
	target := newProfile(policy.RoleUser)
	repo := newTestProfileRepo(user, target)
	svc := NewService(repo)

	_, err := svc.Update(context.Background(), actor(user), target.UID, &UpdateProfileRequest{
		Nickname: strPtr("hijacked"),
	})
	if !errors.Is(err, policy.ErrForbidden) {
		t.Fatalf("got %v, want ErrForbidden", err)
	}
}

func TestUpdate_EmptyPatchByNonOwnerRejected(t *testing.T) {
	user := newProfile(policy.RoleUser)
	target := newProfile(policy.RoleUser)
	repo := newTestProfileRepo(user, target)
	svc := NewService(repo)

	_, err := svc.Update(context.Background(), actor(user), target.UID, &UpdateProfileRequest{})
	if !errors.Is(err, policy.ErrForbidden) {
		t.Fatalf("empty patch got %v, want ErrForbidden", err)
	}
	if repo.updated != nil {
		t.Fatal("repository update should not have been called")
	}

	// A role echoing the current value is not a role change, so the
	// owner-only rule still applies
	_, err = svc.Update(context.Background(), actor(user), target.UID, &UpdateProfileRequest{
		Role: strPtr(string(target.Role)),
	})
	if !errors.Is(err, policy.ErrForbidden) {
		t.Fatalf("same-role patch got %v, want ErrForbidden", err)
	}
}

func TestUpdate_EmptyPatchByOwnerWritesNothing(t *testing.T) {
	user := newProfile(policy.RoleUser)
	repo := newTestProfileRepo(user)
	svc := NewService(repo)

	got, err := svc.Update(context.Background(), actor(user), user.UID, &UpdateProfileRequest{})
	if err != nil {
		t.Fatalf("owner empty patch failed: %v", err)
	}
	if got.UID != user.UID {
		t.Fatalf("returned %s, want the owner's row", got.UID)
	}
	if repo.updated != nil {
		t.Fatal("empty patch must not hit the repository")
	}
}

func TestGet_BlockedProfileHidden(t *testing.T) {
	viewer := newProfile(policy.RoleUser)
	target := newProfile(policy.RoleUser)
	repo := newTestProfileRepo(viewer, target)
	svc := NewService(repo)

	// Block edge in either direction hides the profile
	_, err := svc.Get(context.Background(), actor(viewer, target.UID), target.UID)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}

	// Identical to a genuinely missing profile
	_, missingErr := svc.Get(context.Background(), actor(viewer), uuid.New())
	if !errors.Is(missingErr, ErrNotFound) {
		t.Fatalf("missing profile: got %v, want ErrNotFound", missingErr)
	}
}
