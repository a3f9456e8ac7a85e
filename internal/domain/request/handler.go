package request

import (
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/moim/moim-api/internal/domain/policy"
	"github.com/moim/moim-api/internal/domain/room"
	"github.com/moim/moim-api/internal/middleware"
	"github.com/moim/moim-api/internal/pkg/response"
	"github.com/moim/moim-api/internal/pkg/validator"
)

// Handler handles join request HTTP requests
type Handler struct {
	service *Service
}

// NewHandler creates request handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Create handles POST /rooms/{roomID}/requests
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	roomID, err := uuid.Parse(chi.URLParam(r, "roomID"))
	if err != nil {
		response.BadRequest(w, "Invalid room ID")
		return
	}

	// The intro note is optional, an empty body files a plain request
	var dto CreateRequestRequest
	if err := response.DecodeJSON(r.Body, &dto); err != nil && !errors.Is(err, io.EOF) {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if errs := validator.Validate(&dto); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	actor := middleware.GetActor(r.Context())
	req, err := h.service.Create(r.Context(), actor, roomID, &dto)
	if err != nil {
		switch {
		case errors.Is(err, room.ErrNotFound):
			response.NotFound(w, "Room not found")
		case errors.Is(err, policy.ErrForbidden):
			response.Forbidden(w, "Sign in to request a seat")
		case errors.Is(err, policy.ErrInvalid):
			response.BadRequest(w, "Hosts cannot request their own room")
		case errors.Is(err, policy.ErrConflict):
			response.Conflict(w, "already_closed", "Room is no longer active")
		case errors.Is(err, ErrRoomFull):
			response.Conflict(w, "full", "Room is at capacity")
		case errors.Is(err, ErrDuplicateRequest):
			response.Conflict(w, "duplicate", "You already have an open request for this room")
		default:
			response.InternalError(w)
		}
		return
	}

	response.Created(w, req)
}

// ListForRoom handles GET /rooms/{roomID}/requests
func (h *Handler) ListForRoom(w http.ResponseWriter, r *http.Request) {
	roomID, err := uuid.Parse(chi.URLParam(r, "roomID"))
	if err != nil {
		response.BadRequest(w, "Invalid room ID")
		return
	}

	actor := middleware.GetActor(r.Context())
	reqs, err := h.service.ListForRoom(r.Context(), actor, roomID)
	if err != nil {
		switch {
		case errors.Is(err, room.ErrNotFound):
			response.NotFound(w, "Room not found")
		case errors.Is(err, policy.ErrForbidden):
			response.Forbidden(w, "Sign in to list requests")
		default:
			response.InternalError(w)
		}
		return
	}
	if reqs == nil {
		reqs = []*Request{}
	}

	response.OK(w, reqs)
}

// ListMine handles GET /requests/me
func (h *Handler) ListMine(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetActor(r.Context())
	reqs, err := h.service.ListMine(r.Context(), actor)
	if err != nil {
		if errors.Is(err, policy.ErrForbidden) {
			response.Forbidden(w, "Sign in to list your requests")
		} else {
			response.InternalError(w)
		}
		return
	}
	if reqs == nil {
		reqs = []*Request{}
	}

	response.OK(w, reqs)
}

// Get handles GET /requests/{id}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid request ID")
		return
	}

	actor := middleware.GetActor(r.Context())
	req, err := h.service.Get(r.Context(), actor, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFound(w, "Request not found")
		} else {
			response.InternalError(w)
		}
		return
	}

	response.OK(w, req)
}

// Decide handles PATCH /requests/{id}
func (h *Handler) Decide(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid request ID")
		return
	}

	var dto DecideRequest
	if err := response.DecodeJSON(r.Body, &dto); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if errs := validator.Validate(&dto); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	actor := middleware.GetActor(r.Context())
	decision, err := h.service.Decide(r.Context(), actor, id, &dto)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			response.NotFound(w, "Request not found")
		case errors.Is(err, policy.ErrForbidden):
			response.Forbidden(w, "Only the host may decide this request")
		case errors.Is(err, ErrAlreadyDecided):
			response.Conflict(w, "already_decided", "Request has already been decided")
		case errors.Is(err, ErrRoomFull):
			response.Conflict(w, "full", "Room is at capacity")
		case errors.Is(err, ErrRoomClosed):
			response.Conflict(w, "already_closed", "Room is no longer active")
		case errors.Is(err, policy.ErrInvalid):
			response.BadRequest(w, "Invalid decision status")
		default:
			response.InternalError(w)
		}
		return
	}

	response.OK(w, decision)
}
