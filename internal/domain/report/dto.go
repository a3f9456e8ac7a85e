package report

import "github.com/google/uuid"

// CreateReportRequest is the POST payload for a new report
type CreateReportRequest struct {
	TargetType string    `json:"target_type" validate:"required,oneof=profile room message"`
	TargetID   uuid.UUID `json:"target_id" validate:"required"`
	Reason     string    `json:"reason" validate:"required,report_reason"`
	Details    string    `json:"details,omitempty" validate:"omitempty,max=1000"`
}

// UpdateReportRequest moves a report through the moderation workflow
type UpdateReportRequest struct {
	Status string `json:"status" validate:"required,oneof=reviewing resolved dismissed"`
}
