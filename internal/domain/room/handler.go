package room

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/moim/moim-api/internal/domain/policy"
	"github.com/moim/moim-api/internal/middleware"
	"github.com/moim/moim-api/internal/pkg/response"
	"github.com/moim/moim-api/internal/pkg/validator"
)

// Handler handles room HTTP requests
type Handler struct {
	service *Service
}

// NewHandler creates room handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// List handles GET /rooms
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r)
	if err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	actor := middleware.GetActor(r.Context())
	rooms, err := h.service.List(r.Context(), actor, filter)
	if err != nil {
		response.InternalError(w)
		return
	}
	if rooms == nil {
		rooms = []*Room{}
	}

	response.OK(w, rooms)
}

// Get handles GET /rooms/{id}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid room ID")
		return
	}

	actor := middleware.GetActor(r.Context())
	room, err := h.service.Get(r.Context(), actor, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFound(w, "Room not found")
		} else {
			response.InternalError(w)
		}
		return
	}

	response.OK(w, room)
}

// Create handles POST /rooms
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateRoomRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	actor := middleware.GetActor(r.Context())
	room, err := h.service.Create(r.Context(), actor, &req)
	if err != nil {
		if errors.Is(err, policy.ErrForbidden) {
			response.Forbidden(w, "Sign in to create a room")
		} else {
			response.InternalError(w)
		}
		return
	}

	response.Created(w, room)
}

// Update handles PATCH /rooms/{id}
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid room ID")
		return
	}

	var req UpdateRoomRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	actor := middleware.GetActor(r.Context())
	room, err := h.service.Update(r.Context(), actor, id, &req)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			response.NotFound(w, "Room not found")
		case errors.Is(err, policy.ErrForbidden):
			response.Forbidden(w, "Only the host may update this room")
		case errors.Is(err, policy.ErrConflict):
			response.Conflict(w, "already_closed", "Room is no longer active")
		case errors.Is(err, ErrInvalidTransition):
			response.BadRequest(w, "Capacity cannot drop below current participants")
		default:
			response.InternalError(w)
		}
		return
	}

	response.OK(w, room)
}

func parseFilter(r *http.Request) (*Filter, error) {
	q := r.URL.Query()
	filter := &Filter{}

	for _, f := range []struct {
		key  string
		dest **float64
	}{
		{"min_lat", &filter.MinLat},
		{"max_lat", &filter.MaxLat},
		{"min_lng", &filter.MinLng},
		{"max_lng", &filter.MaxLng},
	} {
		if raw := q.Get(f.key); raw != "" {
			v, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return nil, errors.New("invalid " + f.key)
			}
			*f.dest = &v
		}
	}

	if category := q.Get("category"); category != "" {
		filter.Category = &category
	}
	if status := q.Get("status"); status != "" {
		filter.Status = &status
	}
	if raw := q.Get("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			filter.Limit = v
		}
	}
	if raw := q.Get("offset"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			filter.Offset = v
		}
	}

	return filter, nil
}
