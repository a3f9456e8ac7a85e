package report

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes returns report router. Filing and reading your own reports needs
// auth; the moderation queue additionally needs the admin role.
func (h *Handler) Routes(authMiddleware, adminMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(authMiddleware)

	r.Post("/", h.Create)
	r.Get("/me", h.ListMine)
	r.Get("/{id}", h.Get)

	r.Group(func(r chi.Router) {
		r.Use(adminMiddleware)
		r.Get("/", h.ListQueue)
		r.Patch("/{id}", h.UpdateStatus)
	})

	return r
}
