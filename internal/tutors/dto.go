package tutors

import "time"

type UpsertStatusRequest struct {
	UserID      string `json:"user_id" validate:"required"`
	StatusTutor string `json:"status_tutor" validate:"required"`
}

type StatusResponse struct {
	TutorID          string    `json:"user_id"`
	Status           string    `json:"status_tutor"`
	StatusChangedBy  string    `json:"status_changed_by"`
	LastStatusChange time.Time `json:"last_status_change"`
	UpdatedAt        time.Time `json:"updated_at"`
}

type TutorResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Subject   string    `json:"subject,omitempty"`
	City      string    `json:"city,omitempty"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ListTutorsRequest struct {
	Status  *string `json:"status,omitempty"`
	Search  *string `json:"search,omitempty"`
	Page    int     `json:"page" validate:"gte=0"`
	PerPage int     `json:"per_page" validate:"gte=0,lte=200"`
}
