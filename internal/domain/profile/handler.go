package profile

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/moim/moim-api/internal/domain/policy"
	"github.com/moim/moim-api/internal/middleware"
	"github.com/moim/moim-api/internal/pkg/response"
	"github.com/moim/moim-api/internal/pkg/validator"
)

// Handler handles profile HTTP requests
type Handler struct {
	service *Service
}

// NewHandler creates profile handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Get handles GET /profiles/{id}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	uid, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid profile ID")
		return
	}

	actor := middleware.GetActor(r.Context())
	p, err := h.service.Get(r.Context(), actor, uid)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFound(w, "Profile not found")
		} else {
			response.InternalError(w)
		}
		return
	}

	includeEmail := actor.UserID == p.UID || actor.IsAdmin()
	response.OK(w, ToResponse(p, includeEmail))
}

// GetMe handles GET /profiles/me
func (h *Handler) GetMe(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetActor(r.Context())
	p, err := h.service.Get(r.Context(), actor, actor.UserID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFound(w, "Profile not found")
		} else {
			response.InternalError(w)
		}
		return
	}

	response.OK(w, ToResponse(p, true))
}

// Update handles PATCH /profiles/{id}
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	uid, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid profile ID")
		return
	}

	var req UpdateProfileRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	actor := middleware.GetActor(r.Context())
	p, err := h.service.Update(r.Context(), actor, uid, &req)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			response.NotFound(w, "Profile not found")
		case errors.Is(err, policy.ErrForbidden):
			response.Forbidden(w, "You may not modify this profile")
		default:
			response.InternalError(w)
		}
		return
	}

	response.OK(w, ToResponse(p, actor.UserID == p.UID || actor.IsAdmin()))
}
