// internal/app/features/importusers/routes.go
package importusers

import (
	"github.com/go-chi/chi/v5"

	"github.com/learnloop/learnloop/internal/app/system/auth"
)

// Routes mounts the import endpoints. Typically:
// r.Mount("/import", importusers.Routes(handler))
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireAdmin)

		pr.Post("/", h.HandleUpload)
		pr.Get("/template", h.HandleTemplate)
	})

	return r
}
