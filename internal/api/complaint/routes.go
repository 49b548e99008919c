package complaint

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers complaint moderation routes
func RegisterRoutes(r chi.Router, h *Handler) {
	r.Route("/complaints", func(r chi.Router) {
		r.Get("/", h.ListComplaints)
		r.Patch("/{complaint_id}/status", h.UpdateStatus)
	})
}
