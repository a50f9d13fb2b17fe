package auth

import "time"

// User represents an authenticated user account.
type User struct {
	ID           string
	Email        string
	Name         string
	PasswordHash string
	Role         string
	PrimaryRole  string
	AccountType  string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
