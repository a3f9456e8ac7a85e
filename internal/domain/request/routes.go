package request

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes returns the /requests router: the actor's own requests plus the
// host's decision endpoint. All operations require auth.
func (h *Handler) Routes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(authMiddleware)

	r.Get("/me", h.ListMine)
	r.Get("/{id}", h.Get)
	r.Patch("/{id}", h.Decide)

	return r
}

// RoomRoutes returns the router mounted under /rooms/{roomID}/requests
func (h *Handler) RoomRoutes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(authMiddleware)

	r.Post("/", h.Create)
	r.Get("/", h.ListForRoom)

	return r
}
