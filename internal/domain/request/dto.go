package request

import "github.com/google/uuid"

// CreateRequestRequest is the optional POST body, an intro note shown to
// the host alongside the request
type CreateRequestRequest struct {
	Message *string `json:"message,omitempty" validate:"omitempty,max=500"`
}

// DecideRequest is the PATCH payload transitioning a pending request.
// The reason is stored only for rejections and is visible to the requester.
type DecideRequest struct {
	Status string  `json:"status" validate:"required,oneof=accepted rejected"`
	Reason *string `json:"reason,omitempty" validate:"omitempty,max=200"`
}

// DecisionResponse echoes the decided request; accepting also reports the
// match created inside the same transaction.
type DecisionResponse struct {
	Request *Request   `json:"request"`
	MatchID *uuid.UUID `json:"match_id,omitempty"`
}
