package locations

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/eduprima/eduprima-api/internal/authz"
	"github.com/eduprima/eduprima-api/internal/platform/httpx"
)

// Handler serves location lookup endpoints. Lookups back form dropdowns all
// over the dashboard, so they only need an authenticated principal, not a
// route-level grant.
type Handler struct {
	logger  *slog.Logger
	service *Service
	authz   authz.Middleware
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, authz authz.Middleware) *Handler {
	return &Handler{logger: logger, service: service, authz: authz}
}

// MountRoutes registers location routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.authz.RequireAuthenticated())
		r.Get("/provinces", h.listProvinces)
		r.Get("/provinces/{id}/cities", h.listCities)
	})
}

func (h *Handler) listProvinces(w http.ResponseWriter, r *http.Request) {
	provinces, err := h.service.Provinces(r.Context())
	if err != nil {
		h.logger.Error("list provinces", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.Success(w, http.StatusOK, map[string]any{"provinces": provinces})
}

func (h *Handler) listCities(w http.ResponseWriter, r *http.Request) {
	cities, err := h.service.Cities(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.logger.Error("list cities", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.Success(w, http.StatusOK, map[string]any{"cities": cities})
}
