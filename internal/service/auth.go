// Package service provides the business logic for authentication and file
// synchronization, delegating persistence to repository interfaces.
package service

import (
	"context"
)

// AuthRepository defines the persistence operations
// required by the authentication service.
type AuthRepository interface {
	// UserExists returns true if a user with the given login exists.
	UserExists(ctx context.Context, login string) (bool, error)
	// RegisterUser creates a new user record with the given login.
	RegisterUser(ctx context.Context, login string) error
}

// AuthService implements authentication operations by delegating
// to an AuthRepository.
type AuthService struct {
	// repo performs the data-layer operations.
	repo AuthRepository
}

// NewAuthService constructs a new AuthService using the provided repository.
func NewAuthService(repo AuthRepository) *AuthService {
	return &AuthService{repo: repo}
}

// UserExists checks whether a user with the specified login exists.
func (s *AuthService) UserExists(ctx context.Context, login string) (bool, error) {
	return s.repo.UserExists(ctx, login)
}

// RegisterUser attempts to register a new user with the given login.
func (s *AuthService) RegisterUser(ctx context.Context, login string) error {
	return s.repo.RegisterUser(ctx, login)
}
