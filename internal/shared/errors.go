package shared

import "errors"

var (
	// ErrNotFound indicates resource not found.
	ErrNotFound = errors.New("not found")
	// ErrValidation indicates missing or malformed input.
	ErrValidation = errors.New("validation failed")
	// ErrUnauthorized indicates the request carries no resolvable principal.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrForbidden indicates the principal may not access the resource.
	ErrForbidden = errors.New("forbidden")
	// ErrStorage indicates an external store lookup or write failure.
	ErrStorage = errors.New("storage failure")
	// ErrInvalidCredentials indicates login failure.
	ErrInvalidCredentials = errors.New("invalid credentials")
)
