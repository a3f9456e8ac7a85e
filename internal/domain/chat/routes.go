package chat

import (
	"github.com/go-chi/chi/v5"
)

// MatchRoutes returns the messages router mounted under
// /matches/{id}/messages. Auth comes from the parent router.
func (h *Handler) MatchRoutes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.ListMessages)
	r.Post("/", h.SendMessage)

	return r
}
