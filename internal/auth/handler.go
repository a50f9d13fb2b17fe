package auth

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/eduprima/eduprima-api/internal/identity"
	"github.com/eduprima/eduprima-api/internal/platform/httpx"
	"github.com/eduprima/eduprima-api/internal/shared"
)

// Handler wires HTTP endpoints for authentication flows.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	sessions  *identity.SessionStore
	validator *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, sessions *identity.SessionStore) *Handler {
	return &Handler{
		logger:    logger,
		service:   service,
		sessions:  sessions,
		validator: validator.New(),
	}
}

// MountRoutes registers auth routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/login", h.handleLogin)
	r.Post("/logout", h.handleLogout)
	r.Get("/session", h.handleSession)
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type loginResponse struct {
	Token     string             `json:"token"`
	ExpiresAt time.Time          `json:"expires_at"`
	User      identity.Principal `json:"user"`
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "email and password are required")
		return
	}

	user, err := h.service.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		httpx.Fail(w, http.StatusUnauthorized, "Email atau password tidak valid")
		return
	}

	principal := identity.Principal{
		ID:          user.ID,
		Email:       user.Email,
		Role:        identity.Role(user.Role),
		PrimaryRole: user.PrimaryRole,
		AccountType: user.AccountType,
	}
	token, sessionID, err := h.sessions.Issue(r.Context(), principal, identity.SessionReady)
	if err != nil {
		h.logger.Error("issue session", slog.Any("error", err))
		httpx.RespondError(w, shared.ErrStorage)
		return
	}

	expiresAt := time.Now().Add(h.sessions.TTL())
	if err := h.service.RegisterSession(r.Context(), sessionID, user.ID, expiresAt, r.RemoteAddr, r.UserAgent()); err != nil {
		h.logger.Warn("register session", slog.Any("error", err))
	}

	httpx.Success(w, http.StatusOK, loginResponse{Token: token, ExpiresAt: expiresAt, User: principal})
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	token := identity.BearerToken(r)
	if token == "" {
		httpx.Fail(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	sessionID, err := h.sessions.Revoke(r.Context(), token)
	if err != nil {
		h.logger.Warn("revoke session", slog.Any("error", err))
	} else if err := h.service.RemoveSession(r.Context(), sessionID); err != nil {
		h.logger.Warn("remove session row", slog.Any("error", err))
	}
	httpx.Success(w, http.StatusOK, map[string]any{"logged_out": true})
}

// handleSession mirrors the dashboard's session probe: it reports the
// resolution outcome without ever failing the caller.
func (h *Handler) handleSession(w http.ResponseWriter, r *http.Request) {
	res := identity.ResolutionFromContext(r.Context())
	payload := map[string]any{"state": res.State.String()}
	if res.State == identity.StateAuthenticated && res.Principal != nil {
		payload["user"] = res.Principal
	}
	httpx.Success(w, http.StatusOK, payload)
}
