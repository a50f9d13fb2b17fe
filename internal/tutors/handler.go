package tutors

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/eduprima/eduprima-api/internal/authz"
	"github.com/eduprima/eduprima-api/internal/identity"
	"github.com/eduprima/eduprima-api/internal/platform/httpx"
)

// Handler wires HTTP endpoints for tutor management.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	authz     authz.Middleware
	validator *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, authz authz.Middleware) *Handler {
	return &Handler{
		logger:    logger,
		service:   service,
		authz:     authz,
		validator: validator.New(),
	}
}

func (h *Handler) upsertStatus(w http.ResponseWriter, r *http.Request) {
	principal := identity.PrincipalFromContext(r.Context())
	if principal == nil {
		httpx.Fail(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req UpsertStatusRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "user_id and status_tutor are required")
		return
	}

	rec, err := h.service.UpsertStatus(r.Context(), req.UserID, req.StatusTutor, principal.ID)
	if err != nil {
		h.logger.Error("upsert tutor status", slog.Any("error", err), slog.String("tutor", req.UserID))
		httpx.RespondError(w, err)
		return
	}
	httpx.Success(w, http.StatusOK, toStatusResponse(rec))
}

func (h *Handler) showStatus(w http.ResponseWriter, r *http.Request) {
	rec, err := h.service.GetStatus(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.Success(w, http.StatusOK, toStatusResponse(rec))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	req := ListTutorsRequest{Page: 1, PerPage: 20}
	if v := r.URL.Query().Get("status"); v != "" {
		req.Status = &v
	}
	if v := r.URL.Query().Get("search"); v != "" {
		req.Search = &v
	}
	if v := r.URL.Query().Get("page"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			req.Page = parsed
		}
	}
	if v := r.URL.Query().Get("per_page"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 && parsed <= 200 {
			req.PerPage = parsed
		}
	}

	tutors, page, err := h.service.List(r.Context(), req)
	if err != nil {
		h.logger.Error("list tutors", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	items := make([]TutorResponse, len(tutors))
	for i, t := range tutors {
		items[i] = toTutorResponse(t)
	}
	httpx.Success(w, http.StatusOK, map[string]any{
		"tutors":     items,
		"pagination": page,
	})
}

func (h *Handler) show(w http.ResponseWriter, r *http.Request) {
	tutor, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.Success(w, http.StatusOK, toTutorResponse(tutor))
}

func toStatusResponse(rec ManagementRecord) StatusResponse {
	return StatusResponse{
		TutorID:          rec.TutorID,
		Status:           rec.Status,
		StatusChangedBy:  rec.StatusChangedBy,
		LastStatusChange: rec.LastStatusChange,
		UpdatedAt:        rec.UpdatedAt,
	}
}

func toTutorResponse(t Tutor) TutorResponse {
	return TutorResponse{
		ID:        t.ID,
		Name:      t.Name,
		Email:     t.Email,
		Subject:   t.Subject,
		City:      t.City,
		Status:    t.Status,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}
