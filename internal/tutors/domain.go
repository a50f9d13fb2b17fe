package tutors

import "time"

// Tutor is a tutor profile as listed in the tutor database views.
type Tutor struct {
	ID        string
	Name      string
	Email     string
	Subject   string
	City      string
	Status    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ManagementRecord is the status/audit row kept per tutor.
// At most one record exists per tutor; writes go through an atomic upsert.
type ManagementRecord struct {
	TutorID          string
	Status           string
	StatusChangedBy  string
	LastStatusChange time.Time
	UpdatedAt        time.Time
}
