package match

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/moim/moim-api/internal/domain/policy"
	"github.com/moim/moim-api/internal/middleware"
	"github.com/moim/moim-api/internal/pkg/response"
)

// Handler handles match HTTP requests
type Handler struct {
	service *Service
}

// NewHandler creates match handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// ListMine handles GET /matches
func (h *Handler) ListMine(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetActor(r.Context())
	matches, err := h.service.ListMine(r.Context(), actor)
	if err != nil {
		if errors.Is(err, policy.ErrForbidden) {
			response.Forbidden(w, "Sign in to list your matches")
		} else {
			response.InternalError(w)
		}
		return
	}
	if matches == nil {
		matches = []*Match{}
	}

	response.OK(w, matches)
}

// Get handles GET /matches/{id}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid match ID")
		return
	}

	actor := middleware.GetActor(r.Context())
	m, err := h.service.Get(r.Context(), actor, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFound(w, "Match not found")
		} else {
			response.InternalError(w)
		}
		return
	}

	response.OK(w, m)
}

// End handles PATCH /matches/{id}
func (h *Handler) End(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid match ID")
		return
	}

	actor := middleware.GetActor(r.Context())
	m, err := h.service.End(r.Context(), actor, id)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			response.NotFound(w, "Match not found")
		case errors.Is(err, policy.ErrForbidden):
			response.Forbidden(w, "Only a participant may end this match")
		case errors.Is(err, ErrAlreadyEnded):
			response.Conflict(w, "already_ended", "Match is already closed")
		default:
			response.InternalError(w)
		}
		return
	}

	response.OK(w, m)
}
