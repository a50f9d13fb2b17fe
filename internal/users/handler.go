package users

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/eduprima/eduprima-api/internal/authz"
	"github.com/eduprima/eduprima-api/internal/identity"
	"github.com/eduprima/eduprima-api/internal/platform/httpx"
	"github.com/eduprima/eduprima-api/jobs"
)

// AdminUsersResource is the dashboard subtree for user administration.
// Only super admins pass the gate for it.
const AdminUsersResource = "/eduprima/main/admin/users"

// Handler manages user management endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
	authz   authz.Middleware
	jobs    *jobs.Client
}

// NewHandler builds a Handler instance. The jobs client may be nil; audit
// entries are then skipped rather than blocking the request.
func NewHandler(logger *slog.Logger, service *Service, authz authz.Middleware, jobs *jobs.Client) *Handler {
	return &Handler{logger: logger, service: service, authz: authz, jobs: jobs}
}

// MountRoutes registers user routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.authz.RequireResource(AdminUsersResource))
		r.Get("/", h.listUsers)
		r.Get("/{id}", h.showUser)
		r.Put("/{id}/active", h.setActive)
	})
}

type userResponse struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	Name        string    `json:"name"`
	Role        string    `json:"role"`
	PrimaryRole string    `json:"primary_role,omitempty"`
	AccountType string    `json:"account_type,omitempty"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type setActiveRequest struct {
	IsActive bool `json:"is_active"`
}

func (h *Handler) listUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.ListUsers(r.Context())
	if err != nil {
		h.logger.Error("list users failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	items := make([]userResponse, len(users))
	for i, u := range users {
		items[i] = toUserResponse(u)
	}
	httpx.Success(w, http.StatusOK, map[string]any{"users": items})
}

func (h *Handler) showUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.service.GetUser(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.Success(w, http.StatusOK, toUserResponse(user))
}

func (h *Handler) setActive(w http.ResponseWriter, r *http.Request) {
	var req setActiveRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	id := chi.URLParam(r, "id")
	if err := h.service.SetActive(r.Context(), id, req.IsActive); err != nil {
		h.logger.Error("set user active failed", slog.Any("error", err), slog.String("id", id))
		httpx.RespondError(w, err)
		return
	}
	if actor := identity.PrincipalFromContext(r.Context()); actor != nil && h.jobs != nil {
		if _, err := h.jobs.EnqueueAuditRecord(r.Context(), jobs.AuditRecordPayload{
			ActorID:  actor.ID,
			Action:   "user.active.change",
			Entity:   "user",
			EntityID: id,
			Meta:     map[string]any{"is_active": req.IsActive},
			At:       time.Now().UTC(),
		}); err != nil {
			h.logger.Warn("enqueue audit record", slog.Any("error", err))
		}
	}
	httpx.Success(w, http.StatusOK, map[string]any{"id": id, "is_active": req.IsActive})
}

func toUserResponse(u User) userResponse {
	return userResponse{
		ID:          u.ID,
		Email:       u.Email,
		Name:        u.Name,
		Role:        u.Role,
		PrimaryRole: u.PrimaryRole,
		AccountType: u.AccountType,
		IsActive:    u.IsActive,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}
