package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/moim/moim-api/internal/domain/policy"
	"github.com/moim/moim-api/internal/domain/profile"
	"github.com/moim/moim-api/internal/pkg/jwt"
)

type testProfileRepo struct {
	byEmail map[string]*profile.Profile
	byUID   map[uuid.UUID]*profile.Profile
}

func newTestProfileRepo() *testProfileRepo {
	return &testProfileRepo{
		byEmail: make(map[string]*profile.Profile),
		byUID:   make(map[uuid.UUID]*profile.Profile),
	}
}

func (r *testProfileRepo) Create(ctx context.Context, p *profile.Profile) error {
	if _, ok := r.byEmail[p.Email]; ok {
		return profile.ErrEmailTaken
	}
	r.byEmail[p.Email] = p
	r.byUID[p.UID] = p
	return nil
}

func (r *testProfileRepo) GetByUID(ctx context.Context, uid uuid.UUID) (*profile.Profile, error) {
	return r.byUID[uid], nil
}

func (r *testProfileRepo) GetByEmail(ctx context.Context, email string) (*profile.Profile, error) {
	return r.byEmail[email], nil
}

func (r *testProfileRepo) Update(ctx context.Context, p *profile.Profile) error {
	r.byUID[p.UID] = p
	return nil
}

func newTestService() (*Service, *testProfileRepo) {
	repo := newTestProfileRepo()
	jwtSvc := jwt.NewService("test-secret", 15*time.Minute, 720*time.Hour)
	return NewService(repo, jwtSvc, nil), repo
}

func TestSignup_CreatesUserRoleAccount(t *testing.T) {
	svc, repo := newTestService()

	resp, err := svc.Signup(context.Background(), &SignupRequest{
		Email:    "  New@Example.COM ",
		Password: "hunter2hunter2",
		Nickname: "mina",
		AgeRange: "20s",
	})
	if err != nil {
		t.Fatalf("signup failed: %v", err)
	}

	if resp.User.Role != string(policy.RoleUser) {
		t.Errorf("role = %s, signup must always grant user", resp.User.Role)
	}
	if resp.Tokens.AccessToken == "" || resp.Tokens.RefreshToken == "" {
		t.Error("signup must return a token pair")
	}

	// Email is normalized before storage
	if _, ok := repo.byEmail["new@example.com"]; !ok {
		t.Error("email was not normalized to lowercase")
	}
}

func TestSignup_DuplicateEmailConflicts(t *testing.T) {
	svc, _ := newTestService()

	req := &SignupRequest{Email: "dup@example.com", Password: "hunter2hunter2", Nickname: "a", AgeRange: "30s"}
	if _, err := svc.Signup(context.Background(), req); err != nil {
		t.Fatalf("first signup failed: %v", err)
	}

	_, err := svc.Signup(context.Background(), req)
	if !errors.Is(err, ErrEmailAlreadyExists) {
		t.Fatalf("got %v, want ErrEmailAlreadyExists", err)
	}
}

func TestLogin_WrongPasswordAndUnknownEmailLookAlike(t *testing.T) {
	svc, _ := newTestService()

	if _, err := svc.Signup(context.Background(), &SignupRequest{
		Email: "u@example.com", Password: "hunter2hunter2", Nickname: "u", AgeRange: "20s",
	}); err != nil {
		t.Fatalf("signup failed: %v", err)
	}

	_, wrongPass := svc.Login(context.Background(), &LoginRequest{Email: "u@example.com", Password: "nope-nope"})
	_, unknown := svc.Login(context.Background(), &LoginRequest{Email: "ghost@example.com", Password: "whatever"})

	if !errors.Is(wrongPass, ErrInvalidCredentials) || !errors.Is(unknown, ErrInvalidCredentials) {
		t.Fatalf("wrongPass=%v unknown=%v, both must be ErrInvalidCredentials", wrongPass, unknown)
	}
}

func TestRefresh_RequiresLiveStore(t *testing.T) {
	svc, _ := newTestService()

	resp, err := svc.Signup(context.Background(), &SignupRequest{
		Email: "r@example.com", Password: "hunter2hunter2", Nickname: "r", AgeRange: "40s",
	})
	if err != nil {
		t.Fatalf("signup failed: %v", err)
	}

	// Without Redis there is no jti store, so rotation must refuse even a
	// well-signed token instead of silently skipping the single-use check.
	_, err = svc.Refresh(context.Background(), resp.Tokens.RefreshToken)
	if !errors.Is(err, ErrInvalidRefreshToken) {
		t.Fatalf("got %v, want ErrInvalidRefreshToken", err)
	}
}
