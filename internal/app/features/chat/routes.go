// internal/app/features/chat/routes.go
package chat

import (
	"github.com/go-chi/chi/v5"

	"github.com/learnloop/learnloop/internal/app/system/auth"
)

// Routes mounts the chat routes. Typically:
// r.Mount("/chat", chat.Routes(handler))
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireSignedIn)

		pr.Get("/{id}/messages", h.HandleTimeline)
		pr.Post("/{id}/messages", h.HandlePost)
		pr.Post("/sync", h.HandleSync)
	})

	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireAdmin)

		pr.Post("/{id}/questions", h.HandlePostQuestion)
	})

	return r
}
