package locations

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/eduprima/eduprima-api/internal/authz"
	"github.com/eduprima/eduprima-api/internal/identity"
	_ "github.com/eduprima/eduprima-api/testing"
)

func newLocationsRouter(t *testing.T, repo *stubRepo) chi.Router {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := NewHandler(logger, newCachedService(t, repo), authz.Middleware{Logger: logger})

	r := chi.NewRouter()
	r.Route("/api/locations", h.MountRoutes)
	return r
}

func TestProvincesRequireAuthentication(t *testing.T) {
	router := newLocationsRouter(t, &stubRepo{provinces: []Province{{ID: "32", Name: "JAWA BARAT"}}})

	states := map[string]identity.Resolution{
		"anonymous": {State: identity.StateAnonymous},
		"unknown":   {State: identity.StateUnknown},
	}
	for name, res := range states {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/locations/provinces", nil)
			req = req.WithContext(identity.ContextWithResolution(req.Context(), res))
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("status = %d, want 401: %s", rec.Code, rec.Body.String())
			}
		})
	}
}

func TestProvincesServeAnyAuthenticatedRole(t *testing.T) {
	router := newLocationsRouter(t, &stubRepo{provinces: []Province{{ID: "32", Name: "JAWA BARAT"}}})

	res := identity.Resolution{
		State:     identity.StateAuthenticated,
		Principal: &identity.Principal{ID: "u1", Role: identity.Role("finance_staff")},
	}
	req := httptest.NewRequest(http.MethodGet, "/api/locations/provinces", nil)
	req = req.WithContext(identity.ContextWithResolution(req.Context(), res))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	var envelope struct {
		Success bool `json:"success"`
		Data    struct {
			Provinces []Province `json:"provinces"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(envelope.Data.Provinces) != 1 || envelope.Data.Provinces[0].Name != "Jawa Barat" {
		t.Fatalf("unexpected payload: %+v", envelope.Data)
	}
}
