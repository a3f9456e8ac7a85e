package room

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes returns room router. Listing and reading work for guests (public
// rooms only); creating and updating require auth.
func (h *Handler) Routes(authMiddleware, optionalAuthMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Group(func(r chi.Router) {
		r.Use(optionalAuthMiddleware)
		r.Get("/", h.List)
		r.Get("/{id}", h.Get)
	})

	r.Group(func(r chi.Router) {
		r.Use(authMiddleware)
		r.Post("/", h.Create)
		r.Patch("/{id}", h.Update)
	})

	return r
}
