package tutors

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/eduprima/eduprima-api/internal/authz"
	"github.com/eduprima/eduprima-api/internal/identity"
	_ "github.com/eduprima/eduprima-api/testing"
)

func newTestRouter(repo *mockRepo) chi.Router {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := NewService(repo, nil, logger)
	gate := authz.Middleware{Logger: logger}
	h := NewHandler(logger, svc, gate)

	r := chi.NewRouter()
	r.Route("/api/tutors", h.MountRoutes)
	return r
}

func asRole(req *http.Request, role identity.Role) *http.Request {
	res := identity.Resolution{
		State:     identity.StateAuthenticated,
		Principal: &identity.Principal{ID: "actor1", Role: role},
	}
	return req.WithContext(identity.ContextWithResolution(req.Context(), res))
}

func TestUpsertStatusEndpoint(t *testing.T) {
	repo := newMockRepo()
	router := newTestRouter(repo)

	body := `{"user_id":"K","status_tutor":"active"}`
	req := httptest.NewRequest(http.MethodPut, "/api/tutors/status", strings.NewReader(body))
	req = asRole(req, identity.RoleDatabaseTutorManager)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	var envelope struct {
		Success bool `json:"success"`
		Data    struct {
			TutorID         string `json:"user_id"`
			Status          string `json:"status_tutor"`
			StatusChangedBy string `json:"status_changed_by"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !envelope.Success {
		t.Fatal("expected success envelope")
	}
	if envelope.Data.TutorID != "K" || envelope.Data.Status != "active" {
		t.Fatalf("unexpected payload: %+v", envelope.Data)
	}
	if envelope.Data.StatusChangedBy != "actor1" {
		t.Fatalf("status_changed_by = %q, want actor1", envelope.Data.StatusChangedBy)
	}
}

func TestUpsertStatusEndpointAnonymous(t *testing.T) {
	router := newTestRouter(newMockRepo())

	req := httptest.NewRequest(http.MethodPut, "/api/tutors/status", strings.NewReader(`{"user_id":"K","status_tutor":"active"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestUpsertStatusEndpointForbiddenRole(t *testing.T) {
	router := newTestRouter(newMockRepo())

	req := httptest.NewRequest(http.MethodPut, "/api/tutors/status", strings.NewReader(`{"user_id":"K","status_tutor":"active"}`))
	req = asRole(req, identity.Role("finance_staff"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}
}

func TestUpsertStatusEndpointBadPayload(t *testing.T) {
	cases := map[string]string{
		"malformed json": `{"user_id": `,
		"missing fields": `{"user_id":"K"}`,
		"empty body":     ``,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			router := newTestRouter(newMockRepo())
			req := httptest.NewRequest(http.MethodPut, "/api/tutors/status", strings.NewReader(body))
			req = asRole(req, identity.RoleSuperAdmin)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400: %s", rec.Code, rec.Body.String())
			}
			var envelope struct {
				Success bool   `json:"success"`
				Message string `json:"message"`
			}
			if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
				t.Fatalf("decode response: %v", err)
			}
			if envelope.Success || envelope.Message == "" {
				t.Fatalf("expected failure envelope with message, got %+v", envelope)
			}
		})
	}
}

func TestShowStatusEndpoint(t *testing.T) {
	repo := newMockRepo()
	router := newTestRouter(repo)

	svc := NewService(repo, nil, nil)
	if _, err := svc.UpsertStatus(context.Background(), "K", "active", "actor1"); err != nil {
		t.Fatalf("seed record: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/tutors/K/status", nil)
	req = asRole(req, identity.RoleSuperAdmin)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	req = httptest.NewRequest(http.MethodGet, "/api/tutors/missing/status", nil)
	req = asRole(req, identity.RoleSuperAdmin)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestListTutorsEndpoint(t *testing.T) {
	repo := newMockRepo()
	repo.tutors["t1"] = Tutor{ID: "t1", Name: "Andi", Email: "andi@example.com", Status: "active"}
	router := newTestRouter(repo)

	req := httptest.NewRequest(http.MethodGet, "/api/tutors/?page=1&per_page=10", nil)
	req = asRole(req, identity.RoleDatabaseTutorManager)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	var envelope struct {
		Success bool `json:"success"`
		Data    struct {
			Tutors     []TutorResponse `json:"tutors"`
			Pagination struct {
				Total int `json:"total"`
			} `json:"pagination"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(envelope.Data.Tutors) != 1 || envelope.Data.Pagination.Total != 1 {
		t.Fatalf("unexpected listing: %+v", envelope.Data)
	}
}
