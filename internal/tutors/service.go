package tutors

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/eduprima/eduprima-api/internal/shared"
)

// RepositoryPort defines data access methods for tutors.
type RepositoryPort interface {
	UpsertStatus(ctx context.Context, rec ManagementRecord) (ManagementRecord, error)
	GetStatus(ctx context.Context, tutorID string) (ManagementRecord, error)
	ListTutors(ctx context.Context, status, search *string, limit, offset int) ([]Tutor, error)
	CountTutors(ctx context.Context, status, search *string) (int, error)
	GetTutor(ctx context.Context, id string) (Tutor, error)
}

// Service wraps tutor management business rules.
type Service struct {
	repo   RepositoryPort
	audit  *shared.AuditLogger
	logger *slog.Logger
	now    func() time.Time
}

// NewService constructs a Service.
func NewService(repo RepositoryPort, audit *shared.AuditLogger, logger *slog.Logger) *Service {
	return &Service{repo: repo, audit: audit, logger: logger, now: time.Now}
}

// UpsertStatus records a status change for a tutor. Input is validated before
// any store access; both timestamps are stamped from the same instant.
func (s *Service) UpsertStatus(ctx context.Context, tutorID, status, actorID string) (ManagementRecord, error) {
	tutorID = strings.TrimSpace(tutorID)
	status = strings.TrimSpace(status)
	if actorID == "" {
		return ManagementRecord{}, shared.ErrUnauthorized
	}
	if tutorID == "" {
		return ManagementRecord{}, fmt.Errorf("%w: user_id is required", shared.ErrValidation)
	}
	if status == "" {
		return ManagementRecord{}, fmt.Errorf("%w: status_tutor is required", shared.ErrValidation)
	}

	now := s.now().UTC()
	rec, err := s.repo.UpsertStatus(ctx, ManagementRecord{
		TutorID:          tutorID,
		Status:           status,
		StatusChangedBy:  actorID,
		LastStatusChange: now,
		UpdatedAt:        now,
	})
	if err != nil {
		return ManagementRecord{}, fmt.Errorf("%w: upsert tutor status: %v", shared.ErrStorage, err)
	}

	if s.audit != nil {
		if err := s.audit.Record(ctx, shared.AuditLog{
			ActorID:  actorID,
			Action:   "tutor.status.change",
			Entity:   "tutor",
			EntityID: tutorID,
			Meta:     map[string]any{"status": status},
			At:       now,
		}); err != nil && s.logger != nil {
			s.logger.Warn("audit tutor status change", slog.Any("error", err))
		}
	}
	return rec, nil
}

// GetStatus returns the management record for a tutor.
func (s *Service) GetStatus(ctx context.Context, tutorID string) (ManagementRecord, error) {
	tutorID = strings.TrimSpace(tutorID)
	if tutorID == "" {
		return ManagementRecord{}, fmt.Errorf("%w: user_id is required", shared.ErrValidation)
	}
	rec, err := s.repo.GetStatus(ctx, tutorID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return ManagementRecord{}, err
		}
		return ManagementRecord{}, fmt.Errorf("%w: get tutor status: %v", shared.ErrStorage, err)
	}
	return rec, nil
}

// List returns a page of tutors with pagination metadata.
func (s *Service) List(ctx context.Context, req ListTutorsRequest) ([]Tutor, shared.Pagination, error) {
	total, err := s.repo.CountTutors(ctx, req.Status, req.Search)
	if err != nil {
		return nil, shared.Pagination{}, fmt.Errorf("%w: count tutors: %v", shared.ErrStorage, err)
	}
	page := shared.NewPagination(req.Page, req.PerPage, total)
	tutors, err := s.repo.ListTutors(ctx, req.Status, req.Search, page.PerPage, page.Offset())
	if err != nil {
		return nil, shared.Pagination{}, fmt.Errorf("%w: list tutors: %v", shared.ErrStorage, err)
	}
	return tutors, page, nil
}

// Get returns one tutor by ID.
func (s *Service) Get(ctx context.Context, id string) (Tutor, error) {
	tutor, err := s.repo.GetTutor(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return Tutor{}, err
		}
		return Tutor{}, fmt.Errorf("%w: get tutor: %v", shared.ErrStorage, err)
	}
	return tutor, nil
}
