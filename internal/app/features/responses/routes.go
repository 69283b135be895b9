// internal/app/features/responses/routes.go
package responses

import (
	"github.com/go-chi/chi/v5"

	"github.com/learnloop/learnloop/internal/app/system/auth"
)

// Routes mounts the response routes. Typically:
// r.Mount("/responses", responses.Routes(handler))
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireSignedIn)

		pr.Post("/{messageID}", h.HandleAnswer)
		pr.Get("/{messageID}/mine", h.HandleMine)
	})

	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireAdmin)

		pr.Get("/{messageID}", h.HandleList)
	})

	return r
}
