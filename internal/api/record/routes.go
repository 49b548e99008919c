package record

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers record moderation routes
func RegisterRoutes(r chi.Router, h *Handler) {
	r.Route("/records/{variant}", func(r chi.Router) {
		r.Get("/", h.ListRecords)
		r.Get("/export", h.ExportRecords)

		r.Route("/{record_id}", func(r chi.Router) {
			r.Get("/", h.GetRecord)
			r.Patch("/status", h.UpdateStatus)
		})
	})
}
