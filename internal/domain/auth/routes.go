package auth

import (
	"github.com/go-chi/chi/v5"
)

// Routes returns auth router. No auth middleware here, these endpoints
// mint the tokens.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/signup", h.Signup)
	r.Post("/login", h.Login)
	r.Post("/refresh", h.Refresh)
	r.Post("/logout", h.Logout)

	return r
}
