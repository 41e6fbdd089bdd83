package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/yaqubtawab/siwes-backend/internal/app/models"
	"github.com/yaqubtawab/siwes-backend/internal/app/repositories"
	"github.com/yaqubtawab/siwes-backend/internal/pkg/apperrors"
	"github.com/yaqubtawab/siwes-backend/internal/pkg/logger"
)

// AuthorizationService resolves actors and enforces ownership rules.
// Ownership failures surface as a generic permission error so a caller
// cannot probe which records exist.
type AuthorizationService struct {
	userRepo repositories.UserRepository
}

// NewAuthorizationService creates a new AuthorizationService
func NewAuthorizationService(userRepo repositories.UserRepository) *AuthorizationService {
	return &AuthorizationService{userRepo: userRepo}
}

// GetUserInfo returns user information
func (s *AuthorizationService) GetUserInfo(ctx context.Context, userID int64) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		logger.Error().Err(err).Int64("userID", userID).Msg("Error getting user by ID in GetUserInfo")
		return nil, fmt.Errorf("failed to get user information: %w", err)
	}
	return user, nil
}

// ResolveStudent returns the student account for userID, rejecting other roles
func (s *AuthorizationService) ResolveStudent(ctx context.Context, userID int64) (*models.User, error) {
	user, err := s.GetUserInfo(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !user.IsStudent() {
		return nil, apperrors.ErrPermissionDenied
	}
	return user, nil
}

// ResolveSupervisor returns the supervisor capability for userID
func (s *AuthorizationService) ResolveSupervisor(ctx context.Context, userID int64) (Supervisor, error) {
	user, err := s.GetUserInfo(ctx, userID)
	if err != nil {
		return nil, err
	}
	return SupervisorFor(user)
}

// ValidateEntryOwnership checks that the entry belongs to the student. The
// failure is reported as permission denied, not as not found, so the caller
// learns nothing about other students' entries.
func (s *AuthorizationService) ValidateEntryOwnership(entry *models.LogbookEntry, studentID int64) error {
	if entry.StudentID != studentID {
		return apperrors.ErrPermissionDenied
	}
	return nil
}

// ValidateStudentAssignment checks that the student is assigned to the
// supervisor for the supervisor's own review stage
func (s *AuthorizationService) ValidateStudentAssignment(supervisor Supervisor, student *models.User) error {
	assigned := student.SupervisorIDFor(supervisor.Type())
	if assigned == nil || *assigned != supervisor.ID() {
		return apperrors.ErrStudentNotAssigned
	}
	return nil
}
