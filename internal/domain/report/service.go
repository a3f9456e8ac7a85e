package report

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/moim/moim-api/internal/domain/policy"
)

// Service implements report business logic
type Service struct {
	repo Repository
}

// NewService creates report service
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Submit files a new report in the actor's name
func (s *Service) Submit(ctx context.Context, actor *policy.ActorContext, req *CreateReportRequest) (*Report, error) {
	if err := policy.CanCreateReport(actor, actor.UserID); err != nil {
		return nil, err
	}

	report := &Report{
		ID:         uuid.New(),
		ReporterID: actor.UserID,
		TargetType: TargetType(req.TargetType),
		TargetID:   req.TargetID,
		Reason:     req.Reason,
		Details:    req.Details,
		Status:     StatusOpen,
		CreatedAt:  time.Now(),
	}
	if err := s.repo.Create(ctx, report); err != nil {
		return nil, err
	}
	return report, nil
}

// Get loads a report visible to the actor: the reporter or an admin
func (s *Service) Get(ctx context.Context, actor *policy.ActorContext, id uuid.UUID) (*Report, error) {
	report, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if report == nil {
		return nil, ErrNotFound
	}

	if err := policy.CanReadReport(actor, report.View()); err != nil {
		if errors.Is(err, policy.ErrHidden) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return report, nil
}

// ListMine returns the actor's own reports
func (s *Service) ListMine(ctx context.Context, actor *policy.ActorContext) ([]*Report, error) {
	if actor.IsGuest() {
		return nil, policy.ErrForbidden
	}
	return s.repo.ListByReporter(ctx, actor.UserID)
}

// ListQueue returns the moderation queue, admins only, oldest first
func (s *Service) ListQueue(ctx context.Context, actor *policy.ActorContext, status *Status, limit, offset int) ([]*Report, error) {
	if err := policy.CanUpdateReport(actor); err != nil {
		return nil, err
	}
	return s.repo.ListAll(ctx, status, limit, offset)
}

// UpdateStatus moves a report through the workflow, admins only
func (s *Service) UpdateStatus(ctx context.Context, actor *policy.ActorContext, id uuid.UUID, req *UpdateReportRequest) (*Report, error) {
	if err := policy.CanUpdateReport(actor); err != nil {
		return nil, err
	}

	report, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if report == nil {
		return nil, ErrNotFound
	}

	if err := s.repo.UpdateStatus(ctx, id, Status(req.Status)); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}
