package users

import (
	"context"
	"errors"
	"fmt"

	"github.com/eduprima/eduprima-api/internal/shared"
)

// RepositoryPort defines data access methods for users.
type RepositoryPort interface {
	ListUsers(ctx context.Context) ([]User, error)
	GetUser(ctx context.Context, id string) (User, error)
	SetActive(ctx context.Context, id string, active bool) error
}

// Service handles user management logic.
type Service struct {
	repo RepositoryPort
}

// NewService builds a Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// ListUsers returns all users.
func (s *Service) ListUsers(ctx context.Context) ([]User, error) {
	users, err := s.repo.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: list users: %v", shared.ErrStorage, err)
	}
	return users, nil
}

// GetUser returns one user.
func (s *Service) GetUser(ctx context.Context, id string) (User, error) {
	user, err := s.repo.GetUser(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return User{}, err
		}
		return User{}, fmt.Errorf("%w: get user: %v", shared.ErrStorage, err)
	}
	return user, nil
}

// SetActive activates or deactivates an account.
func (s *Service) SetActive(ctx context.Context, id string, active bool) error {
	if err := s.repo.SetActive(ctx, id, active); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return err
		}
		return fmt.Errorf("%w: set user active: %v", shared.ErrStorage, err)
	}
	return nil
}
