package tutors

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/eduprima/eduprima-api/internal/shared"
)

// Repository provides PostgreSQL backed persistence for tutors.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// UpsertStatus writes the management record in a single statement so two
// concurrent writers cannot race an existence check against the insert.
func (r *Repository) UpsertStatus(ctx context.Context, rec ManagementRecord) (ManagementRecord, error) {
	const query = `
		INSERT INTO tutor_management_records (tutor_id, status, status_changed_by, last_status_change, updated_at)
		VALUES ($1, $2, $3, $4, $4)
		ON CONFLICT (tutor_id) DO UPDATE SET
			status = EXCLUDED.status,
			status_changed_by = EXCLUDED.status_changed_by,
			last_status_change = EXCLUDED.last_status_change,
			updated_at = EXCLUDED.updated_at
		RETURNING tutor_id, status, status_changed_by, last_status_change, updated_at`
	var out ManagementRecord
	err := r.pool.QueryRow(ctx, query, rec.TutorID, rec.Status, rec.StatusChangedBy, rec.LastStatusChange).
		Scan(&out.TutorID, &out.Status, &out.StatusChangedBy, &out.LastStatusChange, &out.UpdatedAt)
	if err != nil {
		return ManagementRecord{}, err
	}
	return out, nil
}

// GetStatus fetches the management record for a tutor.
func (r *Repository) GetStatus(ctx context.Context, tutorID string) (ManagementRecord, error) {
	const query = `
		SELECT tutor_id, status, status_changed_by, last_status_change, updated_at
		FROM tutor_management_records WHERE tutor_id = $1`
	var rec ManagementRecord
	err := r.pool.QueryRow(ctx, query, tutorID).
		Scan(&rec.TutorID, &rec.Status, &rec.StatusChangedBy, &rec.LastStatusChange, &rec.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ManagementRecord{}, shared.ErrNotFound
		}
		return ManagementRecord{}, err
	}
	return rec, nil
}

// ListTutors returns a page of tutors filtered by status and search term.
func (r *Repository) ListTutors(ctx context.Context, status, search *string, limit, offset int) ([]Tutor, error) {
	const query = `
		SELECT t.id, t.name, t.email, t.subject, t.city,
		       COALESCE(m.status, 'registered'), t.created_at, t.updated_at
		FROM tutors t
		LEFT JOIN tutor_management_records m ON m.tutor_id = t.id
		WHERE ($1::text IS NULL OR m.status = $1)
		  AND ($2::text IS NULL OR t.name ILIKE '%' || $2 || '%' OR t.email ILIKE '%' || $2 || '%')
		ORDER BY t.name
		LIMIT $3 OFFSET $4`
	rows, err := r.pool.Query(ctx, query, status, search, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var tutors []Tutor
	for rows.Next() {
		var t Tutor
		if err := rows.Scan(&t.ID, &t.Name, &t.Email, &t.Subject, &t.City, &t.Status, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		tutors = append(tutors, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return tutors, nil
}

// CountTutors returns the total matching the same filters as ListTutors.
func (r *Repository) CountTutors(ctx context.Context, status, search *string) (int, error) {
	const query = `
		SELECT COUNT(*)
		FROM tutors t
		LEFT JOIN tutor_management_records m ON m.tutor_id = t.id
		WHERE ($1::text IS NULL OR m.status = $1)
		  AND ($2::text IS NULL OR t.name ILIKE '%' || $2 || '%' OR t.email ILIKE '%' || $2 || '%')`
	var total int
	if err := r.pool.QueryRow(ctx, query, status, search).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

// GetTutor fetches one tutor by ID.
func (r *Repository) GetTutor(ctx context.Context, id string) (Tutor, error) {
	const query = `
		SELECT t.id, t.name, t.email, t.subject, t.city,
		       COALESCE(m.status, 'registered'), t.created_at, t.updated_at
		FROM tutors t
		LEFT JOIN tutor_management_records m ON m.tutor_id = t.id
		WHERE t.id = $1`
	var t Tutor
	err := r.pool.QueryRow(ctx, query, id).
		Scan(&t.ID, &t.Name, &t.Email, &t.Subject, &t.City, &t.Status, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Tutor{}, shared.ErrNotFound
		}
		return Tutor{}, err
	}
	return t, nil
}
