package relationships

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes returns block router
func (h *Handler) Routes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Use(authMiddleware)

	r.Post("/{id}/block", h.Block)
	r.Delete("/{id}/block", h.Unblock)
	r.Get("/me/blocked", h.ListBlocked)

	return r
}
