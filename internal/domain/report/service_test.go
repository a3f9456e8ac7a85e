package report

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/moim/moim-api/internal/domain/policy"
)

type testRepo struct {
	reports map[uuid.UUID]*Report
}

func newTestRepo() *testRepo {
	return &testRepo{reports: make(map[uuid.UUID]*Report)}
}

func (r *testRepo) Create(ctx context.Context, report *Report) error {
	r.reports[report.ID] = report
	return nil
}

func (r *testRepo) GetByID(ctx context.Context, id uuid.UUID) (*Report, error) {
	report, ok := r.reports[id]
	if !ok {
		return nil, nil
	}
	copied := *report
	return &copied, nil
}

func (r *testRepo) ListByReporter(ctx context.Context, reporterID uuid.UUID) ([]*Report, error) {
	var out []*Report
	for _, rep := range r.reports {
		if rep.ReporterID == reporterID {
			out = append(out, rep)
		}
	}
	return out, nil
}

func (r *testRepo) ListAll(ctx context.Context, status *Status, limit, offset int) ([]*Report, error) {
	var out []*Report
	for _, rep := range r.reports {
		if status == nil || rep.Status == *status {
			out = append(out, rep)
		}
	}
	return out, nil
}

func (r *testRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status Status) error {
	r.reports[id].Status = status
	return nil
}

func userActor(id uuid.UUID) *policy.ActorContext {
	return &policy.ActorContext{UserID: id, Role: policy.RoleUser}
}

func adminActor() *policy.ActorContext {
	return &policy.ActorContext{UserID: uuid.New(), Role: policy.RoleAdmin}
}

func TestSubmit_GuestForbidden(t *testing.T) {
	svc := NewService(newTestRepo())

	_, err := svc.Submit(context.Background(), policy.Guest(), &CreateReportRequest{
		TargetType: "profile",
		TargetID:   uuid.New(),
		Reason:     "spam",
	})
	if !errors.Is(err, policy.ErrForbidden) {
		t.Fatalf("got %v, want ErrForbidden", err)
	}
}

func TestGet_ReportHiddenFromOtherUsers(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	reporter := uuid.New()
	rep, err := svc.Submit(context.Background(), userActor(reporter), &CreateReportRequest{
		TargetType: "room",
		TargetID:   uuid.New(),
		Reason:     "scam",
	})
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	if _, err := svc.Get(context.Background(), userActor(reporter), rep.ID); err != nil {
		t.Fatalf("reporter should read own report, got %v", err)
	}
	if _, err := svc.Get(context.Background(), adminActor(), rep.ID); err != nil {
		t.Fatalf("admin should read any report, got %v", err)
	}

	_, err = svc.Get(context.Background(), userActor(uuid.New()), rep.ID)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("stranger got %v, want ErrNotFound", err)
	}
}

func TestQueue_AdminOnly(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	_, err := svc.ListQueue(context.Background(), userActor(uuid.New()), nil, 50, 0)
	if !errors.Is(err, policy.ErrForbidden) {
		t.Fatalf("user got %v, want ErrForbidden", err)
	}

	if _, err := svc.ListQueue(context.Background(), adminActor(), nil, 50, 0); err != nil {
		t.Fatalf("admin queue read failed: %v", err)
	}
}

func TestUpdateStatus_AdminMovesWorkflow(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	rep, err := svc.Submit(context.Background(), userActor(uuid.New()), &CreateReportRequest{
		TargetType: "message",
		TargetID:   uuid.New(),
		Reason:     "abuse",
	})
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	_, err = svc.UpdateStatus(context.Background(), userActor(rep.ReporterID), rep.ID, &UpdateReportRequest{Status: "resolved"})
	if !errors.Is(err, policy.ErrForbidden) {
		t.Fatalf("reporter got %v, want ErrForbidden", err)
	}

	updated, err := svc.UpdateStatus(context.Background(), adminActor(), rep.ID, &UpdateReportRequest{Status: "resolved"})
	if err != nil {
		t.Fatalf("admin update failed: %v", err)
	}
	if updated.Status != StatusResolved {
		t.Errorf("status = %s, want resolved", updated.Status)
	}
}
