package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/yaqubtawab/siwes-backend/internal/app/models"
	"github.com/yaqubtawab/siwes-backend/internal/app/models/dto"
	"github.com/yaqubtawab/siwes-backend/internal/app/repositories"
	"github.com/yaqubtawab/siwes-backend/internal/pkg/apperrors"
	"github.com/yaqubtawab/siwes-backend/internal/pkg/logger"
)

// ClearanceService defines the interface for clearance aggregation. All
// counters are recomputed from the logbook on every change; nothing is ever
// incremented in place.
type ClearanceService interface {
	// GetClearanceData returns the derived five-item checklist together with
	// the persisted clearance record
	GetClearanceData(ctx context.Context, studentID int64) (*dto.ClearanceDataResponse, error)
	// EnsureRecord provisions the initial not_cleared record if missing
	EnsureRecord(ctx context.Context, studentID int64) error
	// RecountAfterIndustryApproval refreshes the industry stage after an
	// industry supervisor approves an entry
	RecountAfterIndustryApproval(ctx context.Context, studentID int64) error
	// ApplySchoolApproval records the final school stage after a school
	// supervisor approves an entry
	ApplySchoolApproval(ctx context.Context, studentID, schoolSupervisorID int64) error
	// MarkStudentAsCleared is the school supervisor's direct clearance action.
	// It is idempotent; clearing an already cleared student changes nothing.
	MarkStudentAsCleared(ctx context.Context, studentID, schoolSupervisorID int64) error
}

// clearanceServiceImpl implements ClearanceService
type clearanceServiceImpl struct {
	clearanceRepo repositories.ClearanceRepository
	logbookRepo   repositories.LogbookRepository
	userRepo      repositories.UserRepository
	statsService  StatsService
	notifier      Notifier
}

// NewClearanceService creates a new ClearanceService
func NewClearanceService(
	clearanceRepo repositories.ClearanceRepository,
	logbookRepo repositories.LogbookRepository,
	userRepo repositories.UserRepository,
	statsService StatsService,
	notifier Notifier,
) ClearanceService {
	return &clearanceServiceImpl{
		clearanceRepo: clearanceRepo,
		logbookRepo:   logbookRepo,
		userRepo:      userRepo,
		statsService:  statsService,
		notifier:      notifier,
	}
}

// GetClearanceData returns the derived checklist for a student. A student
// without a clearance record yet gets a zero-value not_cleared view.
func (s *clearanceServiceImpl) GetClearanceData(ctx context.Context, studentID int64) (*dto.ClearanceDataResponse, error) {
	student, err := s.userRepo.GetByID(ctx, studentID)
	if err != nil {
		return nil, err
	}

	stats, err := s.statsService.GetStats(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("error computing stats for clearance: %w", err)
	}

	record, err := s.clearanceRepo.GetByStudent(ctx, studentID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrClearanceNotFound) {
			return nil, err
		}
		record = &models.ClearanceRecord{
			StudentID: studentID,
			Status:    models.ClearanceNotCleared,
		}
	}

	requirements, progress, eligible := EvaluateRequirements(*stats, record)

	studentInfo := dto.ToUserResponse(student)
	return &dto.ClearanceDataResponse{
		Requirements:    requirements,
		OverallProgress: progress,
		IsEligible:      eligible,
		ClearanceStatus: dto.ToClearanceRecordResponse(record),
		Student:         &studentInfo,
	}, nil
}

// EnsureRecord provisions the initial clearance record for a new student
func (s *clearanceServiceImpl) EnsureRecord(ctx context.Context, studentID int64) error {
	_, err := s.clearanceRepo.GetOrCreate(ctx, studentID)
	return err
}

// RecountAfterIndustryApproval refreshes the industry stage counters from a
// fresh approved-entry count. A cleared record never regresses.
func (s *clearanceServiceImpl) RecountAfterIndustryApproval(ctx context.Context, studentID int64) error {
	approved, err := s.logbookRepo.CountApproved(ctx, studentID)
	if err != nil {
		return fmt.Errorf("error counting approved entries: %w", err)
	}

	record, err := s.clearanceRepo.GetOrCreate(ctx, studentID)
	if err != nil {
		return err
	}

	record.IndustrySupervisorApproved = true
	record.TotalWeeksCompleted = approved
	record.TotalEntriesApproved = approved
	if !record.Cleared() {
		if approved >= models.DurationThreshold {
			record.Status = models.ClearanceReadyForSchoolApproval
		} else {
			record.Status = models.ClearanceNotCleared
		}
	}

	if err := s.clearanceRepo.Update(ctx, record); err != nil {
		return err
	}

	logger.Info().
		Int64("studentID", studentID).
		Int("approvedEntries", approved).
		Str("status", string(record.Status)).
		Msg("Clearance recounted after industry approval")
	return nil
}

// ApplySchoolApproval records the final school stage. Idempotent; approval
// timestamps are set once and kept on later calls.
func (s *clearanceServiceImpl) ApplySchoolApproval(ctx context.Context, studentID, schoolSupervisorID int64) error {
	record, err := s.clearanceRepo.GetOrCreate(ctx, studentID)
	if err != nil {
		return err
	}

	if record.Cleared() {
		return nil
	}

	now := time.Now()
	record.SchoolSupervisorApproved = true
	record.SchoolSupervisorID = &schoolSupervisorID
	record.SchoolApprovalDate = &now
	record.Status = models.ClearanceCleared
	record.CompletedAt = &now

	if err := s.clearanceRepo.Update(ctx, record); err != nil {
		return err
	}

	s.notifyCleared(ctx, studentID)
	return nil
}

// MarkStudentAsCleared is the direct clearance action. It finalizes both
// approval flags and lifts the counters to at least the duration threshold,
// matching what external paperwork has already attested.
func (s *clearanceServiceImpl) MarkStudentAsCleared(ctx context.Context, studentID, schoolSupervisorID int64) error {
	record, err := s.clearanceRepo.GetOrCreate(ctx, studentID)
	if err != nil {
		return err
	}

	if record.Cleared() {
		return nil
	}

	now := time.Now()
	record.IndustrySupervisorApproved = true
	record.SchoolSupervisorApproved = true
	record.SchoolSupervisorID = &schoolSupervisorID
	record.SchoolApprovalDate = &now
	record.Status = models.ClearanceCleared
	record.CompletedAt = &now
	if record.TotalWeeksCompleted < models.DurationThreshold {
		record.TotalWeeksCompleted = models.DurationThreshold
	}
	if record.TotalEntriesApproved < models.DurationThreshold {
		record.TotalEntriesApproved = models.DurationThreshold
	}

	if err := s.clearanceRepo.Update(ctx, record); err != nil {
		return err
	}

	logger.Info().Int64("studentID", studentID).Int64("supervisorID", schoolSupervisorID).Msg("Student marked as cleared")
	s.notifyCleared(ctx, studentID)
	return nil
}

func (s *clearanceServiceImpl) notifyCleared(ctx context.Context, studentID int64) {
	student, err := s.userRepo.GetByID(ctx, studentID)
	if err != nil {
		logger.Warn().Err(err).Int64("studentID", studentID).Msg("Could not load student for clearance notification")
		return
	}
	s.notifier.StudentCleared(ctx, student)
}

// EvaluateRequirements derives the five-item checklist from entry counts and
// the clearance record. It returns the requirements, the overall progress as
// a 0-100 percentage and whether every requirement is completed.
func EvaluateRequirements(stats models.LogbookStats, record *models.ClearanceRecord) ([]models.ClearanceRequirement, int, bool) {
	durationStatus := models.RequirementInProgress
	if stats.Total >= models.DurationThreshold {
		durationStatus = models.RequirementCompleted
	}

	requirements := []models.ClearanceRequirement{
		{
			Type:        models.RequirementDuration,
			Title:       "Complete Minimum Duration",
			Description: fmt.Sprintf("Complete at least %d weeks of internship", models.DurationThreshold),
			Current:     minInt(stats.Total, models.DurationThreshold),
			Required:    models.DurationThreshold,
			Status:      durationStatus,
		},
		{
			Type:        models.RequirementLogEntries,
			Title:       "Submit Log Entries",
			Description: "Submit daily log entries for each week",
			Current:     stats.Total,
			Required:    models.DurationThreshold,
			Status:      durationStatus,
		},
		{
			Type:        models.RequirementSupervisorApproval,
			Title:       "Industry Supervisor Approval",
			Description: "Get approval from industry-based supervisor",
			Current:     boolToCount(record.IndustrySupervisorApproved),
			Required:    1,
			Status:      boolToStatus(record.IndustrySupervisorApproved),
		},
		{
			Type:        models.RequirementAcademicApproval,
			Title:       "School Supervisor Approval",
			Description: "Get approval from institution-based supervisor",
			Current:     boolToCount(record.SchoolSupervisorApproved),
			Required:    1,
			Status:      boolToStatus(record.SchoolSupervisorApproved),
		},
		{
			Type:        models.RequirementFinalAssessment,
			Title:       "Final Assessment",
			Description: "Complete final evaluation and assessment",
			Current:     boolToCount(record.Cleared()),
			Required:    1,
			Status:      boolToStatus(record.Cleared()),
		},
	}

	// Each ratio is capped at 1 so overshooting one requirement cannot mask
	// an incomplete one.
	sum := 0.0
	eligible := true
	for _, req := range requirements {
		ratio := float64(req.Current) / float64(req.Required)
		if ratio > 1 {
			ratio = 1
		}
		sum += ratio
		if req.Status != models.RequirementCompleted {
			eligible = false
		}
	}
	progress := int(math.Round(sum / float64(len(requirements)) * 100))

	return requirements, progress, eligible
}

func boolToCount(b bool) int {
	if b {
		return 1
	}
	return 0
}

func boolToStatus(b bool) models.RequirementStatus {
	if b {
		return models.RequirementCompleted
	}
	return models.RequirementPending
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
