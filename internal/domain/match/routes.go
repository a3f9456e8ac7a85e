package match

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes returns match router. Everything requires auth; guests have no
// matches to see. The messages router mounts under /{id}/messages so the
// whole /matches subtree lives in one place.
func (h *Handler) Routes(authMiddleware func(http.Handler) http.Handler, messages chi.Router) chi.Router {
	r := chi.NewRouter()
	r.Use(authMiddleware)

	r.Get("/", h.ListMine)
	r.Get("/{id}", h.Get)
	r.Patch("/{id}", h.End)

	if messages != nil {
		r.Mount("/{id}/messages", messages)
	}

	return r
}
