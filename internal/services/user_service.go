package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"pasar/internal/models"
	"pasar/internal/repositories"
	"pasar/pkg/apperr"
)

// UserService handles business logic for account administration. Listing and
// status changes are restricted to elevated actors; a disabled account is
// rejected at login by the auth service.
type UserService struct {
	userRepo repositories.UserRepository
}

// NewUserService creates a new UserService.
func NewUserService(userRepo repositories.UserRepository) *UserService {
	return &UserService{
		userRepo: userRepo,
	}
}

// GetUsers retrieves every user account.
func (s *UserService) GetUsers(ctx context.Context, role string) ([]models.User, error) {
	if !models.IsElevated(role) {
		return nil, apperr.Forbidden("only administrators can list users")
	}
	return s.userRepo.GetAll(ctx)
}

// GetUserByID retrieves a single account. A non-elevated requester may only
// view their own account.
func (s *UserService) GetUserByID(ctx context.Context, id, requesterID uint, role string) (*models.User, error) {
	if !models.IsElevated(role) && id != requesterID {
		return nil, apperr.Forbidden("you can only view your own account")
	}

	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperr.NotFound("user not found")
		}
		return nil, err
	}
	return user, nil
}

// SetUserStatus activates or deactivates an account. Administrators cannot
// change their own status, so the last active admin cannot lock everyone out.
func (s *UserService) SetUserStatus(ctx context.Context, id uint, active bool, actorID uint, role string) (*models.User, error) {
	if !models.IsElevated(role) {
		return nil, apperr.Forbidden("only administrators can change account status")
	}
	if id == actorID {
		return nil, apperr.InvalidState("you cannot change the status of your own account")
	}

	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperr.NotFound("user not found")
		}
		return nil, err
	}

	user.IsActive = active
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update user %d: %w", id, err)
	}
	log.Printf("User status updated: id=%d active=%v by user=%d", user.ID, user.IsActive, actorID)
	return user, nil
}
