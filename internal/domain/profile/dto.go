package profile

import (
	"time"

	"github.com/google/uuid"
)

// UpdateProfileRequest is the PATCH payload. Role changes ride the same
// endpoint and are gated by the role guard.
type UpdateProfileRequest struct {
	Nickname *string `json:"nickname,omitempty" validate:"omitempty,min=2,max=30"`
	AgeRange *string `json:"age_range,omitempty" validate:"omitempty,age_range"`
	Role     *string `json:"role,omitempty" validate:"omitempty,oneof=user admin"`
}

// ProfileResponse is the public shape of a profile. Email is included only
// for the owner (and admins).
type ProfileResponse struct {
	UID       uuid.UUID `json:"uid"`
	Email     string    `json:"email,omitempty"`
	Nickname  string    `json:"nickname"`
	AgeRange  string    `json:"age_range"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// ToResponse converts a profile row, stripping the email unless the viewer
// owns the row or is an admin.
func ToResponse(p *Profile, includeEmail bool) *ProfileResponse {
	resp := &ProfileResponse{
		UID:       p.UID,
		Nickname:  p.Nickname,
		AgeRange:  p.AgeRange,
		Role:      string(p.Role),
		CreatedAt: p.CreatedAt,
	}
	if includeEmail {
		resp.Email = p.Email
	}
	return resp
}
