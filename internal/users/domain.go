package users

import "time"

// User represents a platform account as shown in the admin views.
type User struct {
	ID          string
	Email       string
	Name        string
	Role        string
	PrimaryRole string
	AccountType string
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
