package auth

import (
	"github.com/yaqubtawab/siwes-backend/internal/app/models"
	"github.com/yaqubtawab/siwes-backend/internal/pkg/apperrors"
)

// Supervisor is the capability view over a supervisor account. The two
// variants encode which review stage the holder may act on, so callers never
// branch on role strings.
type Supervisor interface {
	ID() int64
	Type() models.SupervisorType
	// CanReview reports whether this supervisor may review the given entry
	// of the given student. A nil return means the review may proceed.
	CanReview(entry *models.LogbookEntry, student *models.User) error
}

// SupervisorFor wraps a user in its supervisor capability
func SupervisorFor(user *models.User) (Supervisor, error) {
	switch user.Role {
	case models.RoleSupervisorIndustry:
		return &industrySupervisor{userID: user.ID}, nil
	case models.RoleSupervisorSchool:
		return &schoolSupervisor{userID: user.ID}, nil
	default:
		return nil, apperrors.ErrNotASupervisor
	}
}

// industrySupervisor reviews pending entries of assigned students
type industrySupervisor struct {
	userID int64
}

func (s *industrySupervisor) ID() int64 { return s.userID }

func (s *industrySupervisor) Type() models.SupervisorType { return models.SupervisorIndustry }

func (s *industrySupervisor) CanReview(entry *models.LogbookEntry, student *models.User) error {
	if student.IndustrySupervisorID == nil || *student.IndustrySupervisorID != s.userID {
		return apperrors.ErrStudentNotAssigned
	}
	if entry.Status != models.EntryPending {
		return apperrors.ErrInvalidTransition
	}
	return nil
}

// schoolSupervisor performs the final review on entries the industry
// supervisor has already approved
type schoolSupervisor struct {
	userID int64
}

func (s *schoolSupervisor) ID() int64 { return s.userID }

func (s *schoolSupervisor) Type() models.SupervisorType { return models.SupervisorSchool }

func (s *schoolSupervisor) CanReview(entry *models.LogbookEntry, student *models.User) error {
	if student.SchoolSupervisorID == nil || *student.SchoolSupervisorID != s.userID {
		return apperrors.ErrStudentNotAssigned
	}
	if entry.Status != models.EntryApproved {
		return apperrors.ErrInvalidTransition
	}
	if !entry.HasIndustryFeedback() {
		return apperrors.ErrNoIndustryFeedback
	}
	if entry.SchoolReview != nil {
		return apperrors.ErrAlreadyFinalReviewed
	}
	return nil
}
