// internal/app/features/login/routes.go
package login

import (
	"github.com/go-chi/chi/v5"

	"github.com/learnloop/learnloop/internal/app/system/auth"
)

// Routes mounts the auth endpoints at the router root.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Post("/login", h.HandleLogin)
	r.Post("/logout", h.HandleLogout)

	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireSignedIn)
		pr.Get("/me", h.HandleMe)
	})

	return r
}
