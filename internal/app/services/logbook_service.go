package services

import (
	"context"
	"fmt"

	"github.com/yaqubtawab/siwes-backend/internal/app/auth"
	"github.com/yaqubtawab/siwes-backend/internal/app/models"
	"github.com/yaqubtawab/siwes-backend/internal/app/models/dto"
	"github.com/yaqubtawab/siwes-backend/internal/app/repositories"
	"github.com/yaqubtawab/siwes-backend/internal/pkg/apperrors"
	"github.com/yaqubtawab/siwes-backend/internal/pkg/helpers"
	"github.com/yaqubtawab/siwes-backend/internal/pkg/logger"
	"github.com/yaqubtawab/siwes-backend/internal/pkg/validation"
)

// LogbookService defines the interface for logbook entry operations.
// Every operation acts on behalf of the owning student; entries of other
// students are never reachable through this service.
type LogbookService interface {
	CreateEntry(ctx context.Context, studentID int64, req *dto.CreateEntryRequest) (*dto.EntryResponse, error)
	GetEntry(ctx context.Context, studentID, entryID int64) (*dto.EntryResponse, error)
	ListEntries(ctx context.Context, studentID int64, filter *dto.EntryFilter) ([]dto.EntryResponse, int64, error)
	UpdateEntry(ctx context.Context, studentID, entryID int64, req *dto.UpdateEntryRequest) (*dto.EntryResponse, error)
	SubmitEntry(ctx context.Context, studentID, entryID int64) (*dto.EntryResponse, error)
	DeleteEntry(ctx context.Context, studentID, entryID int64) error
	GetStats(ctx context.Context, studentID int64) (*models.LogbookStats, error)
}

// logbookServiceImpl implements LogbookService
type logbookServiceImpl struct {
	logbookRepo  repositories.LogbookRepository
	authzService *auth.AuthorizationService
	statsService StatsService
	notifier     Notifier
}

// NewLogbookService creates a new LogbookService
func NewLogbookService(
	logbookRepo repositories.LogbookRepository,
	authzService *auth.AuthorizationService,
	statsService StatsService,
	notifier Notifier,
) LogbookService {
	return &logbookServiceImpl{
		logbookRepo:  logbookRepo,
		authzService: authzService,
		statsService: statsService,
		notifier:     notifier,
	}
}

// CreateEntry records a new daily entry for the student. The entry starts as
// a draft unless the student creates and submits in one step.
func (s *logbookServiceImpl) CreateEntry(ctx context.Context, studentID int64, req *dto.CreateEntryRequest) (*dto.EntryResponse, error) {
	student, err := s.authzService.ResolveStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}

	date, err := helpers.ParseEntryDate(req.Date)
	if err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}
	if err := validateEntryContent(req.Title, req.TaskDone); err != nil {
		return nil, err
	}
	if !validation.ValidEntryDate(date) {
		return nil, apperrors.NewValidationError("entry date cannot be in the future")
	}

	status := models.EntryDraft
	if req.Status != "" {
		status = models.EntryStatus(req.Status)
		if status != models.EntryDraft && status != models.EntryPending {
			return nil, apperrors.NewValidationError("new entries can only be draft or pending")
		}
	}

	entry := &models.LogbookEntry{
		StudentID: studentID,
		Date:      date,
		DayName:   models.DayNameFor(date),
		Title:     req.Title,
		TaskDone:  req.TaskDone,
		MediaURLs: req.MediaURLs,
		Status:    status,
	}

	id, err := s.logbookRepo.Create(ctx, entry)
	if err != nil {
		return nil, fmt.Errorf("error creating logbook entry: %w", err)
	}

	s.statsService.InvalidateStats(ctx, studentID)

	created, err := s.logbookRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error reloading created entry: %w", err)
	}

	if created.Status == models.EntryPending {
		s.notifier.EntrySubmitted(ctx, created, student)
	}

	resp := dto.ToEntryResponse(created)
	return &resp, nil
}

// GetEntry retrieves one of the student's own entries
func (s *logbookServiceImpl) GetEntry(ctx context.Context, studentID, entryID int64) (*dto.EntryResponse, error) {
	entry, err := s.ownedEntry(ctx, studentID, entryID)
	if err != nil {
		return nil, err
	}
	resp := dto.ToEntryResponse(entry)
	return &resp, nil
}

// ListEntries retrieves a filtered page of the student's entries
func (s *logbookServiceImpl) ListEntries(ctx context.Context, studentID int64, filter *dto.EntryFilter) ([]dto.EntryResponse, int64, error) {
	if filter.Status != "" && !models.EntryStatus(filter.Status).Valid() {
		return nil, 0, apperrors.NewValidationError("unknown entry status filter")
	}

	offset, limit := helpers.CalculateOffsetLimit(filter.Page, filter.Size)
	entries, total, err := s.logbookRepo.ListByStudentPaginated(ctx, studentID, repositories.EntryListFilter{
		Status: models.EntryStatus(filter.Status),
		Search: filter.Search,
		Offset: offset,
		Limit:  limit,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("error listing logbook entries: %w", err)
	}

	return dto.ToEntryResponses(entries), total, nil
}

// UpdateEntry edits the content of a draft or pending entry. Approved entries
// are frozen; editing one is a conflict, not a validation failure.
func (s *logbookServiceImpl) UpdateEntry(ctx context.Context, studentID, entryID int64, req *dto.UpdateEntryRequest) (*dto.EntryResponse, error) {
	entry, err := s.ownedEntry(ctx, studentID, entryID)
	if err != nil {
		return nil, err
	}

	if !entry.Editable() {
		return nil, apperrors.ErrEntryNotEditable
	}
	if err := validateEntryContent(req.Title, req.TaskDone); err != nil {
		return nil, err
	}

	entry.Title = req.Title
	entry.TaskDone = req.TaskDone
	entry.MediaURLs = req.MediaURLs

	if err := s.logbookRepo.Update(ctx, entry); err != nil {
		return nil, fmt.Errorf("error updating logbook entry: %w", err)
	}

	s.statsService.InvalidateStats(ctx, studentID)

	resp := dto.ToEntryResponse(entry)
	return &resp, nil
}

// SubmitEntry moves a draft to pending, putting it in front of the industry
// supervisor. Submitting anything but a draft is an invalid transition.
func (s *logbookServiceImpl) SubmitEntry(ctx context.Context, studentID, entryID int64) (*dto.EntryResponse, error) {
	student, err := s.authzService.ResolveStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}

	entry, err := s.ownedEntry(ctx, studentID, entryID)
	if err != nil {
		return nil, err
	}

	if entry.Status != models.EntryDraft {
		return nil, apperrors.ErrInvalidTransition
	}

	entry.Status = models.EntryPending
	if err := s.logbookRepo.Update(ctx, entry); err != nil {
		return nil, fmt.Errorf("error submitting logbook entry: %w", err)
	}

	s.statsService.InvalidateStats(ctx, studentID)
	s.notifier.EntrySubmitted(ctx, entry, student)

	logger.Info().Int64("entryID", entryID).Int64("studentID", studentID).Msg("Logbook entry submitted")

	resp := dto.ToEntryResponse(entry)
	return &resp, nil
}

// DeleteEntry removes a draft. Entries that have entered review stay in the
// record and cannot be deleted.
func (s *logbookServiceImpl) DeleteEntry(ctx context.Context, studentID, entryID int64) error {
	entry, err := s.ownedEntry(ctx, studentID, entryID)
	if err != nil {
		return err
	}

	if entry.Status != models.EntryDraft {
		return apperrors.ErrEntryNotDeletable
	}

	if err := s.logbookRepo.Delete(ctx, entryID); err != nil {
		return fmt.Errorf("error deleting logbook entry: %w", err)
	}

	s.statsService.InvalidateStats(ctx, studentID)
	return nil
}

// GetStats returns the student's entry counts
func (s *logbookServiceImpl) GetStats(ctx context.Context, studentID int64) (*models.LogbookStats, error) {
	return s.statsService.GetStats(ctx, studentID)
}

// ownedEntry loads an entry and checks it belongs to the student
func (s *logbookServiceImpl) ownedEntry(ctx context.Context, studentID, entryID int64) (*models.LogbookEntry, error) {
	entry, err := s.logbookRepo.GetByID(ctx, entryID)
	if err != nil {
		return nil, err
	}
	if err := s.authzService.ValidateEntryOwnership(entry, studentID); err != nil {
		return nil, err
	}
	return entry, nil
}

// validateEntryContent checks the free-text limits shared by create and update
func validateEntryContent(title, taskDone string) error {
	if !validation.ValidEntryTitle(title) {
		return apperrors.NewValidationError(fmt.Sprintf("title must be between 1 and %d characters", validation.TitleMaxLength))
	}
	if !validation.ValidEntryTaskDone(taskDone) {
		return apperrors.NewValidationError(fmt.Sprintf("taskDone must be between 1 and %d characters", validation.TaskDoneMaxLength))
	}
	return nil
}
