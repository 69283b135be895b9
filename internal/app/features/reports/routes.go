// internal/app/features/reports/routes.go
package reports

import (
	"github.com/go-chi/chi/v5"

	"github.com/learnloop/learnloop/internal/app/system/auth"
)

// Routes mounts the report routes. Typically:
// r.Mount("/reports", reports.Routes(handler))
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireAdmin)

		pr.Get("/messages/{messageID}/stats", h.HandleStats)
		pr.Get("/messages/{messageID}/distribution", h.HandleDistribution)
		pr.Get("/overall", h.HandleOverall)
		pr.Get("/export.xlsx", h.HandleExportXLSX)
		pr.Get("/export.csv", h.HandleExportCSV)
	})

	return r
}
