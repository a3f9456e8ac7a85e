package report

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/moim/moim-api/internal/domain/policy"
	"github.com/moim/moim-api/internal/middleware"
	"github.com/moim/moim-api/internal/pkg/errorhandler"
	"github.com/moim/moim-api/internal/pkg/response"
	"github.com/moim/moim-api/internal/pkg/validator"
)

// Handler handles report HTTP requests
type Handler struct {
	service *Service
}

// NewHandler creates report handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Create handles POST /reports
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateReportRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	actor := middleware.GetActor(r.Context())
	report, err := h.service.Submit(r.Context(), actor, &req)
	if err != nil {
		if errors.Is(err, policy.ErrForbidden) {
			response.Forbidden(w, "Sign in to file a report")
		} else {
			errorhandler.HandleError(r.Context(), w, http.StatusInternalServerError, "REPORT_CREATION_FAILED", "Failed to file report", err)
		}
		return
	}

	response.Created(w, report)
}

// ListMine handles GET /reports/me
func (h *Handler) ListMine(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetActor(r.Context())
	reports, err := h.service.ListMine(r.Context(), actor)
	if err != nil {
		if errors.Is(err, policy.ErrForbidden) {
			response.Forbidden(w, "Sign in to list your reports")
		} else {
			response.InternalError(w)
		}
		return
	}
	if reports == nil {
		reports = []*Report{}
	}

	response.OK(w, reports)
}

// Get handles GET /reports/{id}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid report ID")
		return
	}

	actor := middleware.GetActor(r.Context())
	report, err := h.service.Get(r.Context(), actor, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFound(w, "Report not found")
		} else {
			response.InternalError(w)
		}
		return
	}

	response.OK(w, report)
}

// ListQueue handles GET /reports (admin moderation queue)
func (h *Handler) ListQueue(w http.ResponseWriter, r *http.Request) {
	var status *Status
	if raw := r.URL.Query().Get("status"); raw != "" {
		s := Status(raw)
		status = &s
	}

	limit := 50
	offset := 0
	if l := r.URL.Query().Get("limit"); l != "" {
		if v, err := strconv.Atoi(l); err == nil && v > 0 && v <= 100 {
			limit = v
		}
	}
	if o := r.URL.Query().Get("offset"); o != "" {
		if v, err := strconv.Atoi(o); err == nil && v >= 0 {
			offset = v
		}
	}

	actor := middleware.GetActor(r.Context())
	reports, err := h.service.ListQueue(r.Context(), actor, status, limit, offset)
	if err != nil {
		if errors.Is(err, policy.ErrForbidden) {
			response.Forbidden(w, "Admin access required")
		} else {
			errorhandler.HandleError(r.Context(), w, http.StatusInternalServerError, "REPORT_QUEUE_FAILED", "Failed to list moderation queue", err)
		}
		return
	}
	if reports == nil {
		reports = []*Report{}
	}

	response.OK(w, reports)
}

// UpdateStatus handles PATCH /reports/{id}
func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid report ID")
		return
	}

	var req UpdateReportRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	actor := middleware.GetActor(r.Context())
	report, err := h.service.UpdateStatus(r.Context(), actor, id, &req)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			response.NotFound(w, "Report not found")
		case errors.Is(err, policy.ErrForbidden):
			response.Forbidden(w, "Admin access required")
		default:
			response.InternalError(w)
		}
		return
	}

	response.OK(w, report)
}
