package relationships

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/moim/moim-api/internal/domain/policy"
	"github.com/moim/moim-api/internal/middleware"
	"github.com/moim/moim-api/internal/pkg/response"
)

// Handler handles block HTTP requests
type Handler struct {
	service *Service
}

// NewHandler creates block handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Block handles POST /users/{id}/block
func (h *Handler) Block(w http.ResponseWriter, r *http.Request) {
	targetID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid user ID")
		return
	}

	actor := middleware.GetActor(r.Context())
	if err := h.service.Block(r.Context(), actor, targetID); err != nil {
		switch {
		case errors.Is(err, policy.ErrInvalid):
			response.BadRequest(w, "Cannot block yourself")
		case errors.Is(err, policy.ErrForbidden):
			response.Forbidden(w, "Authentication required")
		default:
			response.InternalError(w)
		}
		return
	}

	response.OK(w, map[string]string{"status": "ok"})
}

// Unblock handles DELETE /users/{id}/block
func (h *Handler) Unblock(w http.ResponseWriter, r *http.Request) {
	targetID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid user ID")
		return
	}

	actor := middleware.GetActor(r.Context())
	if err := h.service.Unblock(r.Context(), actor, targetID); err != nil {
		switch {
		case errors.Is(err, policy.ErrInvalid):
			response.BadRequest(w, "Cannot unblock yourself")
		case errors.Is(err, policy.ErrForbidden):
			response.Forbidden(w, "Authentication required")
		default:
			response.InternalError(w)
		}
		return
	}

	response.OK(w, map[string]string{"status": "ok"})
}

// ListBlocked handles GET /users/me/blocked
func (h *Handler) ListBlocked(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetActor(r.Context())
	blocks, err := h.service.ListMine(r.Context(), actor)
	if err != nil {
		response.InternalError(w)
		return
	}

	response.OK(w, blocks)
}
