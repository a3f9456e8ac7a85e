package profile

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes returns profile router. Reads work for guests; writes require auth.
func (h *Handler) Routes(authMiddleware, optionalAuthMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Group(func(r chi.Router) {
		r.Use(authMiddleware)
		r.Get("/me", h.GetMe)
		r.Patch("/{id}", h.Update)
	})

	r.Group(func(r chi.Router) {
		r.Use(optionalAuthMiddleware)
		r.Get("/{id}", h.Get)
	})

	return r
}
