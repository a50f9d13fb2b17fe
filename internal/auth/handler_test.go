package auth_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"

	"github.com/eduprima/eduprima-api/internal/auth"
	"github.com/eduprima/eduprima-api/internal/identity"
	_ "github.com/eduprima/eduprima-api/testing"
)

type stubRepo struct {
	users    map[string]*auth.User
	sessions map[string]string
}

func newStubRepo() *stubRepo {
	return &stubRepo{
		users:    make(map[string]*auth.User),
		sessions: make(map[string]string),
	}
}

func (s *stubRepo) FindByEmail(ctx context.Context, email string) (*auth.User, error) {
	user, ok := s.users[email]
	if !ok {
		return nil, errors.New("no rows in result set")
	}
	return user, nil
}

func (s *stubRepo) CreateSession(ctx context.Context, id, userID string, expiresAt time.Time, ip, ua string) error {
	s.sessions[id] = userID
	return nil
}

func (s *stubRepo) DeleteSession(ctx context.Context, id string) error {
	delete(s.sessions, id)
	return nil
}

func (s *stubRepo) DeleteExpiredSessions(ctx context.Context, before time.Time) (int64, error) {
	return 0, nil
}

func newAuthRouter(t *testing.T, repo *stubRepo) (http.Handler, *identity.SessionStore) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	sessions := identity.NewSessionStore(client, "test-secret", time.Hour)
	resolver := identity.NewResolver(logger,
		identity.NewManagedSource(sessions, logger),
		identity.NewLegacySource(logger),
	)
	handler := auth.NewHandler(logger, auth.NewService(repo), sessions)

	r := chi.NewRouter()
	r.Use(identity.Middleware(resolver))
	r.Route("/api/auth", handler.MountRoutes)
	return r, sessions
}

func seedUser(t *testing.T, repo *stubRepo, email, password string, active bool) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	repo.users[email] = &auth.User{
		ID:           "u1",
		Email:        email,
		Name:         "Rina",
		PasswordHash: string(hash),
		Role:         "database_tutor_manager",
		IsActive:     active,
	}
}

func TestLoginIssuesUsableSession(t *testing.T) {
	repo := newStubRepo()
	seedUser(t, repo, "rina@eduprima.id", "rahasia-kuat", true)
	router, _ := newAuthRouter(t, repo)

	body := `{"email":"rina@eduprima.id","password":"rahasia-kuat"}`
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("login status = %d: %s", rec.Code, rec.Body.String())
	}
	var envelope struct {
		Success bool `json:"success"`
		Data    struct {
			Token string `json:"token"`
			User  struct {
				Email string `json:"email"`
				Role  string `json:"role"`
			} `json:"user"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode login response: %v", err)
	}
	if envelope.Data.Token == "" {
		t.Fatal("expected a session token")
	}
	if envelope.Data.User.Role != "database_tutor_manager" {
		t.Fatalf("role = %q", envelope.Data.User.Role)
	}
	if len(repo.sessions) != 1 {
		t.Fatalf("expected one session row, got %d", len(repo.sessions))
	}

	// The issued token must resolve to an authenticated session.
	req = httptest.NewRequest(http.MethodGet, "/api/auth/session", nil)
	req.Header.Set("Authorization", "Bearer "+envelope.Data.Token)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("session status = %d", rec.Code)
	}
	var probe struct {
		Data struct {
			State string `json:"state"`
			User  struct {
				Email string `json:"email"`
			} `json:"user"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &probe); err != nil {
		t.Fatalf("decode session response: %v", err)
	}
	if probe.Data.State != "authenticated" {
		t.Fatalf("state = %q, want authenticated", probe.Data.State)
	}
	if probe.Data.User.Email != "rina@eduprima.id" {
		t.Fatalf("user email = %q", probe.Data.User.Email)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	repo := newStubRepo()
	seedUser(t, repo, "rina@eduprima.id", "rahasia-kuat", true)
	router, _ := newAuthRouter(t, repo)

	cases := map[string]string{
		"wrong password": `{"email":"rina@eduprima.id","password":"salah-semua"}`,
		"unknown email":  `{"email":"lain@eduprima.id","password":"rahasia-kuat"}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(body))
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("status = %d, want 401: %s", rec.Code, rec.Body.String())
			}
		})
	}
}

func TestLoginRejectsInactiveUser(t *testing.T) {
	repo := newStubRepo()
	seedUser(t, repo, "rina@eduprima.id", "rahasia-kuat", false)
	router, _ := newAuthRouter(t, repo)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(`{"email":"rina@eduprima.id","password":"rahasia-kuat"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestLoginValidatesPayload(t *testing.T) {
	router, _ := newAuthRouter(t, newStubRepo())

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(`{"email":"not-an-email","password":"short"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestLogoutInvalidatesSession(t *testing.T) {
	repo := newStubRepo()
	seedUser(t, repo, "rina@eduprima.id", "rahasia-kuat", true)
	router, sessions := newAuthRouter(t, repo)

	token, _, err := sessions.Issue(context.Background(), identity.Principal{ID: "u1", Email: "rina@eduprima.id"}, identity.SessionReady)
	if err != nil {
		t.Fatalf("issue session: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("logout status = %d: %s", rec.Code, rec.Body.String())
	}

	req = httptest.NewRequest(http.MethodGet, "/api/auth/session", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var probe struct {
		Data struct {
			State string `json:"state"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &probe); err != nil {
		t.Fatalf("decode session response: %v", err)
	}
	if probe.Data.State != "anonymous" {
		t.Fatalf("state after logout = %q, want anonymous", probe.Data.State)
	}
}

func TestLogoutWithoutToken(t *testing.T) {
	router, _ := newAuthRouter(t, newStubRepo())

	req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}
