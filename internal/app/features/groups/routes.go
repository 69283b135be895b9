// internal/app/features/groups/routes.go
package groups

import (
	"github.com/go-chi/chi/v5"

	"github.com/learnloop/learnloop/internal/app/system/auth"
)

// Routes mounts the group routes. Typically:
// r.Mount("/groups", groups.Routes(handler))
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireSignedIn)

		pr.Get("/mine", h.HandleMine)
		pr.Get("/{id}", h.HandleGet)
	})

	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireAdmin)

		pr.Get("/", h.HandleList)
		pr.Post("/", h.HandleCreate)
		pr.Post("/{id}/members", h.HandleAddMember)
		pr.Delete("/{id}/members/{userID}", h.HandleRemoveMember)
	})

	return r
}
