package tutors

import (
	"github.com/go-chi/chi/v5"

	"github.com/eduprima/eduprima-api/internal/authz"
)

// MountRoutes registers tutor routes. Every route is gated on the tutor
// database resource so the path rules stay in one place.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.authz.RequireResource(authz.TutorDatabasePrefix))
		r.Get("/", h.list)
		r.Get("/{id}", h.show)
		r.Get("/{id}/status", h.showStatus)
		r.Put("/status", h.upsertStatus)
	})
}
