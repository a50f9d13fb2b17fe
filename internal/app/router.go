package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/eduprima/eduprima-api/internal/auth"
	"github.com/eduprima/eduprima-api/internal/identity"
	"github.com/eduprima/eduprima-api/internal/locations"
	"github.com/eduprima/eduprima-api/internal/observability"
	"github.com/eduprima/eduprima-api/internal/tutors"
	"github.com/eduprima/eduprima-api/internal/users"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger           *slog.Logger
	Config           *Config
	Resolver         *identity.Resolver
	AuthHandler      *auth.Handler
	TutorsHandler    *tutors.Handler
	UsersHandler     *users.Handler
	LocationsHandler *locations.Handler
	Metrics          *observability.Metrics
}

// NewRouter constructs the chi.Router with Eduprima defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:   params.Logger,
		Config:   params.Config,
		Resolver: params.Resolver,
		Metrics:  params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	r.Route("/api/auth", params.AuthHandler.MountRoutes)
	if params.TutorsHandler != nil {
		r.Route("/api/tutors", params.TutorsHandler.MountRoutes)
	}
	if params.UsersHandler != nil {
		r.Route("/api/users", params.UsersHandler.MountRoutes)
	}
	if params.LocationsHandler != nil {
		r.Route("/api/locations", params.LocationsHandler.MountRoutes)
	}

	return r
}
