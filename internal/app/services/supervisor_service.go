package services

import (
	"context"
	"fmt"
	"time"

	"github.com/yaqubtawab/siwes-backend/internal/app/auth"
	"github.com/yaqubtawab/siwes-backend/internal/app/models"
	"github.com/yaqubtawab/siwes-backend/internal/app/models/dto"
	"github.com/yaqubtawab/siwes-backend/internal/app/repositories"
	"github.com/yaqubtawab/siwes-backend/internal/pkg/apperrors"
	"github.com/yaqubtawab/siwes-backend/internal/pkg/helpers"
	"github.com/yaqubtawab/siwes-backend/internal/pkg/logger"
)

// SupervisorService defines the interface for supervisor operations. Every
// operation resolves the caller's supervisor capability first; the two
// review stages share one entry point and diverge on that capability.
type SupervisorService interface {
	ReviewEntry(ctx context.Context, supervisorUserID, entryID int64, req *dto.ReviewEntryRequest) (*dto.EntryResponse, error)
	AssignedStudents(ctx context.Context, supervisorUserID int64) ([]dto.UserResponse, error)
	PendingReviews(ctx context.Context, supervisorUserID int64) ([]dto.EntryResponse, error)
	AllStudentEntries(ctx context.Context, supervisorUserID int64) ([]dto.EntryResponse, error)
	Stats(ctx context.Context, supervisorUserID int64) (*dto.SupervisorStatsResponse, error)
	StudentProgress(ctx context.Context, supervisorUserID, studentID int64) (*dto.StudentProgressResponse, error)
	StudentsReadyForClearance(ctx context.Context, supervisorUserID int64) ([]dto.ClearanceCandidateResponse, error)
	ClearStudent(ctx context.Context, supervisorUserID, studentID int64) error
}

// supervisorServiceImpl implements SupervisorService
type supervisorServiceImpl struct {
	userRepo         repositories.UserRepository
	logbookRepo      repositories.LogbookRepository
	clearanceRepo    repositories.ClearanceRepository
	authzService     *auth.AuthorizationService
	clearanceService ClearanceService
	statsService     StatsService
	notifier         Notifier
}

// NewSupervisorService creates a new SupervisorService
func NewSupervisorService(
	userRepo repositories.UserRepository,
	logbookRepo repositories.LogbookRepository,
	clearanceRepo repositories.ClearanceRepository,
	authzService *auth.AuthorizationService,
	clearanceService ClearanceService,
	statsService StatsService,
	notifier Notifier,
) SupervisorService {
	return &supervisorServiceImpl{
		userRepo:         userRepo,
		logbookRepo:      logbookRepo,
		clearanceRepo:    clearanceRepo,
		authzService:     authzService,
		clearanceService: clearanceService,
		statsService:     statsService,
		notifier:         notifier,
	}
}

// ReviewEntry applies a supervisor's verdict to one entry. Industry approval
// moves the entry to approved and refreshes the clearance counters; industry
// rejection keeps it pending so the student can revise and stay in review.
// School approval attaches the structured final review and finalizes the
// clearance; school rejection attaches the review and nothing else.
func (s *supervisorServiceImpl) ReviewEntry(ctx context.Context, supervisorUserID, entryID int64, req *dto.ReviewEntryRequest) (*dto.EntryResponse, error) {
	supervisor, err := s.authzService.ResolveSupervisor(ctx, supervisorUserID)
	if err != nil {
		return nil, err
	}

	entry, err := s.logbookRepo.GetByID(ctx, entryID)
	if err != nil {
		return nil, err
	}

	student, err := s.userRepo.GetByID(ctx, entry.StudentID)
	if err != nil {
		return nil, err
	}

	if err := supervisor.CanReview(entry, student); err != nil {
		return nil, err
	}

	switch supervisor.Type() {
	case models.SupervisorIndustry:
		entry.IndustryFeedback = req.Feedback
		if req.Action == models.ActionApprove {
			entry.Status = models.EntryApproved
		}
		// A rejected entry stays pending; the feedback tells the student
		// what to fix before the next review pass.

	case models.SupervisorSchool:
		entry.SchoolReview = &models.SchoolReview{
			Decision:   req.Action,
			Feedback:   req.Feedback,
			ReviewerID: supervisor.ID(),
			ReviewedAt: time.Now(),
		}
	}

	if err := s.logbookRepo.Update(ctx, entry); err != nil {
		return nil, fmt.Errorf("error saving review: %w", err)
	}

	s.statsService.InvalidateStats(ctx, entry.StudentID)

	if req.Action == models.ActionApprove {
		switch supervisor.Type() {
		case models.SupervisorIndustry:
			if err := s.clearanceService.RecountAfterIndustryApproval(ctx, entry.StudentID); err != nil {
				return nil, err
			}
		case models.SupervisorSchool:
			if err := s.clearanceService.ApplySchoolApproval(ctx, entry.StudentID, supervisor.ID()); err != nil {
				return nil, err
			}
		}
	}

	s.notifier.EntryReviewed(ctx, entry, student, req.Action)
	logger.Info().
		Int64("entryID", entryID).
		Int64("supervisorID", supervisorUserID).
		Str("stage", string(supervisor.Type())).
		Str("action", string(req.Action)).
		Msg("Logbook entry reviewed")

	resp := dto.ToEntryResponse(entry)
	return &resp, nil
}

// AssignedStudents lists the active students assigned to the supervisor
func (s *supervisorServiceImpl) AssignedStudents(ctx context.Context, supervisorUserID int64) ([]dto.UserResponse, error) {
	_, students, err := s.resolveWithStudents(ctx, supervisorUserID)
	if err != nil {
		return nil, err
	}

	out := make([]dto.UserResponse, 0, len(students))
	for i := range students {
		out = append(out, dto.ToUserResponse(&students[i]))
	}
	return out, nil
}

// PendingReviews lists the entries waiting on this supervisor's stage.
// Industry: pending entries. School: industry-approved entries that carry
// feedback but no final review yet.
func (s *supervisorServiceImpl) PendingReviews(ctx context.Context, supervisorUserID int64) ([]dto.EntryResponse, error) {
	supervisor, students, err := s.resolveWithStudents(ctx, supervisorUserID)
	if err != nil {
		return nil, err
	}

	ids := studentIDs(students)
	switch supervisor.Type() {
	case models.SupervisorIndustry:
		entries, err := s.logbookRepo.ListForStudents(ctx, ids, models.EntryPending)
		if err != nil {
			return nil, fmt.Errorf("error listing pending reviews: %w", err)
		}
		return dto.ToEntryResponses(entries), nil

	default:
		entries, err := s.logbookRepo.ListForStudents(ctx, ids, models.EntryApproved)
		if err != nil {
			return nil, fmt.Errorf("error listing pending reviews: %w", err)
		}
		awaiting := make([]models.LogbookEntry, 0, len(entries))
		for _, entry := range entries {
			if entry.HasIndustryFeedback() && entry.SchoolReview == nil {
				awaiting = append(awaiting, entry)
			}
		}
		return dto.ToEntryResponses(awaiting), nil
	}
}

// AllStudentEntries lists every entry of the supervisor's students except
// drafts, which remain private to the student until submitted
func (s *supervisorServiceImpl) AllStudentEntries(ctx context.Context, supervisorUserID int64) ([]dto.EntryResponse, error) {
	_, students, err := s.resolveWithStudents(ctx, supervisorUserID)
	if err != nil {
		return nil, err
	}

	entries, err := s.logbookRepo.ListForStudents(ctx, studentIDs(students), models.EntryPending, models.EntryApproved)
	if err != nil {
		return nil, fmt.Errorf("error listing student entries: %w", err)
	}
	return dto.ToEntryResponses(entries), nil
}

// Stats builds the supervisor dashboard counters
func (s *supervisorServiceImpl) Stats(ctx context.Context, supervisorUserID int64) (*dto.SupervisorStatsResponse, error) {
	supervisor, students, err := s.resolveWithStudents(ctx, supervisorUserID)
	if err != nil {
		return nil, err
	}

	ids := studentIDs(students)
	stats := &dto.SupervisorStatsResponse{StudentsCount: len(students)}
	if len(ids) == 0 {
		return stats, nil
	}

	pending, err := s.PendingReviews(ctx, supervisorUserID)
	if err != nil {
		return nil, err
	}
	stats.PendingReviews = len(pending)

	weekStart := helpers.StartOfWeek(time.Now())
	switch supervisor.Type() {
	case models.SupervisorIndustry:
		completed, err := s.logbookRepo.CountForStudents(ctx, ids, models.EntryApproved, nil)
		if err != nil {
			return nil, err
		}
		thisWeek, err := s.logbookRepo.CountForStudents(ctx, ids, models.EntryApproved, &weekStart)
		if err != nil {
			return nil, err
		}
		stats.CompletedReviews = completed
		stats.ThisWeekReviews = thisWeek

	default:
		entries, err := s.logbookRepo.ListForStudents(ctx, ids, models.EntryApproved)
		if err != nil {
			return nil, err
		}
		for _, entry := range entries {
			if entry.SchoolReview == nil {
				continue
			}
			stats.CompletedReviews++
			if !entry.SchoolReview.ReviewedAt.Before(weekStart) {
				stats.ThisWeekReviews++
			}
		}
	}

	return stats, nil
}

// StudentProgress returns one assigned student's entry breakdown
func (s *supervisorServiceImpl) StudentProgress(ctx context.Context, supervisorUserID, studentID int64) (*dto.StudentProgressResponse, error) {
	supervisor, err := s.authzService.ResolveSupervisor(ctx, supervisorUserID)
	if err != nil {
		return nil, err
	}

	student, err := s.userRepo.GetByID(ctx, studentID)
	if err != nil {
		return nil, err
	}
	if err := s.authzService.ValidateStudentAssignment(supervisor, student); err != nil {
		return nil, err
	}

	entries, err := s.logbookRepo.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("error loading student entries: %w", err)
	}

	stats := ComputeStats(entries)
	progress := &dto.StudentProgressResponse{
		Student:         dto.ToUserResponse(student),
		TotalEntries:    stats.Total,
		ApprovedEntries: stats.Approved,
		PendingEntries:  stats.Pending,
		DraftEntries:    stats.Draft,
	}
	for _, entry := range entries {
		if entry.Status == models.EntryApproved {
			progress.IndustryApprovedCount++
			if entry.SchoolReview != nil && entry.SchoolReview.Decision == models.ActionApprove {
				progress.SchoolApprovedCount++
			}
		}
	}
	if len(entries) > 0 {
		// entries are ordered newest date first
		progress.LastEntryDate = entries[0].Date.Format(helpers.EntryDateLayout)
	}

	return progress, nil
}

// StudentsReadyForClearance lists the school supervisor's students whose
// approved-entry count reached the duration threshold
func (s *supervisorServiceImpl) StudentsReadyForClearance(ctx context.Context, supervisorUserID int64) ([]dto.ClearanceCandidateResponse, error) {
	supervisor, students, err := s.resolveWithStudents(ctx, supervisorUserID)
	if err != nil {
		return nil, err
	}
	if supervisor.Type() != models.SupervisorSchool {
		return nil, apperrors.ErrPermissionDenied
	}

	records, err := s.clearanceRepo.ListByStudents(ctx, studentIDs(students))
	if err != nil {
		return nil, err
	}

	candidates := make([]dto.ClearanceCandidateResponse, 0, len(students))
	for i := range students {
		student := &students[i]
		approved, err := s.logbookRepo.CountApproved(ctx, student.ID)
		if err != nil {
			return nil, err
		}
		if approved < models.DurationThreshold {
			continue
		}

		status := models.ClearanceNotCleared
		if record, ok := records[student.ID]; ok {
			status = record.Status
		}
		candidates = append(candidates, dto.ClearanceCandidateResponse{
			Student:         dto.ToUserResponse(student),
			TotalApproved:   approved,
			ClearanceStatus: status,
			CanBeCleared:    status != models.ClearanceCleared,
		})
	}
	return candidates, nil
}

// ClearStudent finalizes an assigned student's clearance. Only the school
// supervisor of that student can do this.
func (s *supervisorServiceImpl) ClearStudent(ctx context.Context, supervisorUserID, studentID int64) error {
	supervisor, err := s.authzService.ResolveSupervisor(ctx, supervisorUserID)
	if err != nil {
		return err
	}
	if supervisor.Type() != models.SupervisorSchool {
		return apperrors.ErrPermissionDenied
	}

	student, err := s.userRepo.GetByID(ctx, studentID)
	if err != nil {
		return err
	}
	if err := s.authzService.ValidateStudentAssignment(supervisor, student); err != nil {
		return err
	}

	return s.clearanceService.MarkStudentAsCleared(ctx, studentID, supervisor.ID())
}

// resolveWithStudents resolves the supervisor capability and loads the
// assigned student set in one step
func (s *supervisorServiceImpl) resolveWithStudents(ctx context.Context, supervisorUserID int64) (auth.Supervisor, []models.User, error) {
	supervisor, err := s.authzService.ResolveSupervisor(ctx, supervisorUserID)
	if err != nil {
		return nil, nil, err
	}

	students, err := s.userRepo.ListAssignedStudents(ctx, supervisor.ID(), supervisor.Type())
	if err != nil {
		return nil, nil, fmt.Errorf("error listing assigned students: %w", err)
	}
	return supervisor, students, nil
}

func studentIDs(students []models.User) []int64 {
	ids := make([]int64, 0, len(students))
	for _, student := range students {
		ids = append(ids, student.ID)
	}
	return ids
}
